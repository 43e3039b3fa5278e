package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"kidquiz_local/internal/config"
	"kidquiz_local/internal/model"
)

// SyncClient 与远端同步接口的薄封装，认证走 Bearer token
type SyncClient struct {
	mu      sync.RWMutex
	baseURL string
	http    *http.Client
}

func NewSyncClient(cfg config.SyncConfig) *SyncClient {
	return &SyncClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// UpdateConfig 配置热更新，切换服务端地址不用重启进程
func (c *SyncClient) UpdateConfig(cfg config.SyncConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	c.http = &http.Client{Timeout: cfg.RequestTimeout}
}

type PushRequest struct {
	Data PushData `json:"data"`
}

type PushData struct {
	Sessions []model.UserSessionLog    `json:"sessions"`
	Progress []model.UserSkillProgress `json:"progress"`
	Rewards  []model.Reward            `json:"rewards"`
}

type PushResponse struct {
	Success bool `json:"success"`
}

type PullData struct {
	Subjects  []model.Subject           `json:"subjects,omitempty"`
	Skills    []model.Skill             `json:"skills,omitempty"`
	Questions []model.Question          `json:"questions,omitempty"`
	Rewards   []model.Reward            `json:"rewards,omitempty"`
	Progress  []model.UserSkillProgress `json:"progress,omitempty"`
	Sessions  []model.UserSessionLog    `json:"sessions,omitempty"`
}

type PullResponse struct {
	Timestamp string   `json:"timestamp"`
	Data      PullData `json:"data"`
}

// HTTPError 服务端返回了非 2xx，与网络错误区分开
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("sync API error (status %d): %s", e.StatusCode, e.Body)
}

func (c *SyncClient) Push(ctx context.Context, token string, payload *PushRequest) (*PushResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var resp PushResponse
	if err := c.do(ctx, http.MethodPost, "/sync", token, bytes.NewBuffer(body), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *SyncClient) Pull(ctx context.Context, token string) (*PullResponse, error) {
	var resp PullResponse
	if err := c.do(ctx, http.MethodGet, "/sync", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *SyncClient) do(ctx context.Context, method, path, token string, body io.Reader, out interface{}) error {
	c.mu.RLock()
	baseURL := c.baseURL
	httpClient := c.http
	c.mu.RUnlock()

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
