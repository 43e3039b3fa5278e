package service

import (
	"os"
	"strings"
	"sync"

	"kidquiz_local/internal/util"
	"kidquiz_local/pkg/logger"
)

// TokenService 保存远端下发的 Bearer token。登录流程在应用外完成，
// UI 拿到 token 后交给核心保存。
type TokenService struct {
	mu   sync.Mutex
	path string
}

func NewTokenService(path string) *TokenService {
	return &TokenService{path: path}
}

func (s *TokenService) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.WriteFile(s.path, []byte(token), 0600)
}

// Get 过期的 JWT 直接淘汰并按无 token 处理
func (s *TokenService) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", util.ErrNoAuthToken
		}
		return "", err
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", util.ErrNoAuthToken
	}

	if util.TokenExpired(token) {
		logger.Log.Info("stored auth token expired, evicting")
		os.Remove(s.path)
		return "", util.ErrNoAuthToken
	}

	return token, nil
}

func (s *TokenService) Evict() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		logger.Log.Warn("failed to remove auth token file")
	}
}
