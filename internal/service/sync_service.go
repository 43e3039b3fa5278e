package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"kidquiz_local/internal/client"
	"kidquiz_local/internal/config"
	"kidquiz_local/internal/repository"
	"kidquiz_local/pkg/logger"
	"kidquiz_local/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SyncService 先推后拉：upsert 是按 id 无条件覆盖，先拉会让服务端
// 旧视图冲掉还没推出去的本地行。
type SyncService struct {
	db     *gorm.DB
	client *client.SyncClient
	tokens *TokenService

	cfgMu     sync.RWMutex
	batchSize int

	mu       sync.Mutex
	inflight *syncCall
}

type syncCall struct {
	done chan struct{}
	ok   bool
}

func NewSyncService(db *gorm.DB, syncClient *client.SyncClient, tokens *TokenService, cfg config.SyncConfig) *SyncService {
	return &SyncService{
		db:        db,
		client:    syncClient,
		tokens:    tokens,
		batchSize: cfg.BatchSize,
	}
}

// UpdateConfig 配置热更新回调
func (s *SyncService) UpdateConfig(cfg config.SyncConfig) {
	s.client.UpdateConfig(cfg)
	s.cfgMu.Lock()
	s.batchSize = cfg.BatchSize
	s.cfgMu.Unlock()
}

// Sync 推送本地脏行，再拉取服务端快照合并，返回整体是否成功。
// 并发调用只跑一次，后来者等待同一次运行的结果。
// 除了缺 token 之外的一切失败都只记日志，等下一次触发重试。
func (s *SyncService) Sync(ctx context.Context) bool {
	s.mu.Lock()
	if c := s.inflight; c != nil {
		s.mu.Unlock()
		<-c.done
		return c.ok
	}
	c := &syncCall{done: make(chan struct{})}
	s.inflight = c
	s.mu.Unlock()

	c.ok = s.run(ctx)

	s.mu.Lock()
	s.inflight = nil
	s.mu.Unlock()
	close(c.done)

	return c.ok
}

func (s *SyncService) run(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("sync panicked", zap.Any("panic", r))
			ok = false
		}
	}()

	start := time.Now()
	defer func() {
		monitoring.SyncDuration.Observe(time.Since(start).Seconds())
	}()

	token, err := s.tokens.Get()
	if err != nil {
		logger.Log.Debug("sync skipped, no auth token")
		return false
	}

	pushErr := s.push(ctx, token)
	if pushErr != nil {
		s.logPhaseError("push", pushErr)
		monitoring.SyncRuns.WithLabelValues("push", "error").Inc()
	} else {
		monitoring.SyncRuns.WithLabelValues("push", "ok").Inc()
	}

	// 推送失败不阻断拉取：两个阶段各自容错
	pullErr := s.pull(ctx, token)
	if pullErr != nil {
		s.logPhaseError("pull", pullErr)
		monitoring.SyncRuns.WithLabelValues("pull", "error").Inc()
	} else {
		monitoring.SyncRuns.WithLabelValues("pull", "ok").Inc()
	}

	return pushErr == nil && pullErr == nil
}

// logPhaseError 区分网络错误和 HTTP 错误，401 时淘汰 token
func (s *SyncService) logPhaseError(phase string, err error) {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusUnauthorized {
			logger.Log.Warn("auth token rejected by server, evicting", zap.String("phase", phase))
			s.tokens.Evict()
			return
		}
		logger.Log.Warn("sync phase failed",
			zap.String("phase", phase),
			zap.String("kind", "http"),
			zap.Int("status", httpErr.StatusCode),
			zap.Error(err))
		return
	}
	logger.Log.Warn("sync phase failed",
		zap.String("phase", phase),
		zap.String("kind", "network"),
		zap.Error(err))
}

func (s *SyncService) push(ctx context.Context, token string) error {
	s.cfgMu.RLock()
	limit := s.batchSize
	s.cfgMu.RUnlock()

	syncRepo := repository.NewSyncRepository(s.db)
	batch, err := syncRepo.CollectUnsynced(limit)
	if err != nil {
		return err
	}
	if batch.Empty() {
		return nil
	}

	resp, err := s.client.Push(ctx, token, &client.PushRequest{
		Data: client.PushData{
			Sessions: batch.Sessions,
			Progress: batch.Progress,
			Rewards:  batch.Rewards,
		},
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("server did not acknowledge push")
	}

	// 只标记这一批真正推出去的行
	return s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := repository.NewSyncRepository(tx)

		sessionIDs := make([]string, 0, len(batch.Sessions))
		for _, row := range batch.Sessions {
			sessionIDs = append(sessionIDs, row.ID)
		}
		if err := txRepo.MarkSynced("user_session_logs", sessionIDs); err != nil {
			return err
		}

		progressIDs := make([]string, 0, len(batch.Progress))
		for _, row := range batch.Progress {
			progressIDs = append(progressIDs, row.ID)
		}
		if err := txRepo.MarkSynced("user_skill_progress", progressIDs); err != nil {
			return err
		}

		rewardIDs := make([]string, 0, len(batch.Rewards))
		for _, row := range batch.Rewards {
			rewardIDs = append(rewardIDs, row.ID)
		}
		return txRepo.MarkSynced("rewards", rewardIDs)
	})
}

func (s *SyncService) pull(ctx context.Context, token string) error {
	resp, err := s.client.Pull(ctx, token)
	if err != nil {
		return err
	}

	contentRepo := repository.NewContentRepository(s.db)
	progressRepo := repository.NewProgressRepository(s.db)
	sessionRepo := repository.NewSessionLogRepository(s.db)
	rewardRepo := repository.NewRewardRepository(s.db)
	syncRepo := repository.NewSyncRepository(s.db)

	// 缺失或为空的集合直接跳过
	if err := contentRepo.UpsertSubjects(resp.Data.Subjects); err != nil {
		return err
	}
	if err := contentRepo.UpsertSkills(resp.Data.Skills); err != nil {
		return err
	}
	if err := contentRepo.UpsertQuestions(resp.Data.Questions); err != nil {
		return err
	}
	if err := rewardRepo.UpsertRewards(resp.Data.Rewards); err != nil {
		return err
	}
	if err := progressRepo.UpsertProgress(resp.Data.Progress); err != nil {
		return err
	}
	if err := sessionRepo.UpsertSessionLogs(resp.Data.Sessions); err != nil {
		return err
	}

	// 水位不筛选拉取范围，只记录最近一次成功拉取
	return syncRepo.SetWatermark(resp.Timestamp)
}

// Watermark 最近一次成功拉取的服务端时间戳
func (s *SyncService) Watermark() (string, error) {
	return repository.NewSyncRepository(s.db).GetWatermark()
}
