package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"kidquiz_local/internal/client"
	"kidquiz_local/internal/config"
	"kidquiz_local/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSyncService(t *testing.T, db *gorm.DB, serverURL string) (*SyncService, *TokenService) {
	t.Helper()
	cfg := config.SyncConfig{
		BaseURL:        serverURL,
		BatchSize:      200,
		RequestTimeout: 5 * time.Second,
	}
	tokens := NewTokenService(tokenPath(t))
	return NewSyncService(db, client.NewSyncClient(cfg), tokens, cfg), tokens
}

func seedDirtyRows(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&model.UserSessionLog{
		ID: "log-1", UserID: "user-1", SkillID: "skill-1",
		SessionNumber: 1, Score: 9, Passed: true,
	}).Error)
	require.NoError(t, db.Create(&model.UserSkillProgress{
		ID: "prog-1", UserID: "user-1", SkillID: "skill-1",
		SessionsPassed: 1, LastUnlockedSession: 2,
	}).Error)
	require.NoError(t, db.Create(&model.Reward{
		ID: "rw-1", UserID: "user-1", RewardType: model.RewardFirstSessionTrophy,
	}).Error)
}

func countUnsynced(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(m).Where("synced = ?", false).Count(&count).Error)
	return count
}

func emptyPullResponse() client.PullResponse {
	return client.PullResponse{Timestamp: "2026-08-01T10:00:00Z"}
}

func TestSyncSkipsWithoutToken(t *testing.T) {
	db := setupTestDB(t)

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	svc, _ := newSyncService(t, db, server.URL)

	assert.False(t, svc.Sync(context.Background()))
	assert.Equal(t, int32(0), hits.Load())
}

func TestSyncPushMarksRowsSynced(t *testing.T) {
	db := setupTestDB(t)
	seedDirtyRows(t, db)

	var pushed client.PushRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&pushed))
			json.NewEncoder(w).Encode(client.PushResponse{Success: true})
		case http.MethodGet:
			json.NewEncoder(w).Encode(emptyPullResponse())
		}
	}))
	defer server.Close()

	svc, tokens := newSyncService(t, db, server.URL)
	require.NoError(t, tokens.Set("test-token"))

	assert.True(t, svc.Sync(context.Background()))

	assert.Len(t, pushed.Data.Sessions, 1)
	assert.Len(t, pushed.Data.Progress, 1)
	assert.Len(t, pushed.Data.Rewards, 1)

	assert.Equal(t, int64(0), countUnsynced(t, db, &model.UserSessionLog{}))
	assert.Equal(t, int64(0), countUnsynced(t, db, &model.UserSkillProgress{}))
	assert.Equal(t, int64(0), countUnsynced(t, db, &model.Reward{}))

	wm, err := svc.Watermark()
	require.NoError(t, err)
	assert.Equal(t, "2026-08-01T10:00:00Z", wm)
}

func TestSyncUnacknowledgedPushLeavesRowsDirty(t *testing.T) {
	db := setupTestDB(t)
	seedDirtyRows(t, db)

	var pulls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			json.NewEncoder(w).Encode(client.PushResponse{Success: false})
		case http.MethodGet:
			pulls.Add(1)
			json.NewEncoder(w).Encode(emptyPullResponse())
		}
	}))
	defer server.Close()

	svc, tokens := newSyncService(t, db, server.URL)
	require.NoError(t, tokens.Set("test-token"))

	assert.False(t, svc.Sync(context.Background()))

	// 脏行保持脏，等待下次重推；推送失败不阻断拉取
	assert.Equal(t, int64(1), countUnsynced(t, db, &model.UserSessionLog{}))
	assert.Equal(t, int32(1), pulls.Load())
}

func TestSyncPushServerErrorStillPulls(t *testing.T) {
	db := setupTestDB(t)
	seedDirtyRows(t, db)

	var pulls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			http.Error(w, "boom", http.StatusInternalServerError)
		case http.MethodGet:
			pulls.Add(1)
			json.NewEncoder(w).Encode(emptyPullResponse())
		}
	}))
	defer server.Close()

	svc, tokens := newSyncService(t, db, server.URL)
	require.NoError(t, tokens.Set("test-token"))

	assert.False(t, svc.Sync(context.Background()))
	assert.Equal(t, int32(1), pulls.Load())
	assert.Equal(t, int64(1), countUnsynced(t, db, &model.Reward{}))
}

func TestSyncEvictsTokenOnUnauthorized(t *testing.T) {
	db := setupTestDB(t)
	seedDirtyRows(t, db)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	path := tokenPath(t)
	cfg := config.SyncConfig{BaseURL: server.URL, BatchSize: 200, RequestTimeout: 5 * time.Second}
	tokens := NewTokenService(path)
	svc := NewSyncService(db, client.NewSyncClient(cfg), tokens, cfg)
	require.NoError(t, tokens.Set("stale-token"))

	assert.False(t, svc.Sync(context.Background()))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSyncPullUpsertsServerData(t *testing.T) {
	db := setupTestDB(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			json.NewEncoder(w).Encode(client.PushResponse{Success: true})
		case http.MethodGet:
			json.NewEncoder(w).Encode(client.PullResponse{
				Timestamp: "2026-08-02T09:00:00Z",
				Data: client.PullData{
					Subjects: []model.Subject{{ID: "subject-1", Name: "Math"}},
					Skills: []model.Skill{{
						ID: "skill-1", SubjectID: "subject-1",
						Name: "Counting", TotalSessions: 10,
					}},
					Questions: []model.Question{{
						ID: "q-1", SkillID: "skill-1",
						SessionIndex: 1, Type: model.QuestionMCQ,
						QuestionText: "2 + 2 = ?", CorrectAnswer: "4",
					}},
					Rewards: []model.Reward{{
						ID: "rw-remote", UserID: "user-1",
						RewardType: model.RewardFirstSessionTrophy, Synced: true,
					}},
				},
			})
		}
	}))
	defer server.Close()

	svc, tokens := newSyncService(t, db, server.URL)
	require.NoError(t, tokens.Set("test-token"))

	assert.True(t, svc.Sync(context.Background()))

	var subject model.Subject
	require.NoError(t, db.First(&subject, "id = ?", "subject-1").Error)
	assert.Equal(t, "Math", subject.Name)

	var question model.Question
	require.NoError(t, db.First(&question, "id = ?", "q-1").Error)
	assert.Equal(t, "4", question.CorrectAnswer)

	var reward model.Reward
	require.NoError(t, db.First(&reward, "id = ?", "rw-remote").Error)
	assert.True(t, reward.Synced)

	wm, err := svc.Watermark()
	require.NoError(t, err)
	assert.Equal(t, "2026-08-02T09:00:00Z", wm)
}

func TestSyncSingleFlight(t *testing.T) {
	db := setupTestDB(t)
	seedDirtyRows(t, db)

	var runs atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			runs.Add(1)
			<-release
			json.NewEncoder(w).Encode(client.PushResponse{Success: true})
		case http.MethodGet:
			json.NewEncoder(w).Encode(emptyPullResponse())
		}
	}))
	defer server.Close()

	svc, tokens := newSyncService(t, db, server.URL)
	require.NoError(t, tokens.Set("test-token"))

	const callers = 5
	results := make([]bool, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.Sync(context.Background())
		}(i)
	}

	// 等所有调用方挂上同一次运行后再放行
	require.Eventually(t, func() bool {
		return runs.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), runs.Load())
	for _, ok := range results {
		assert.True(t, ok)
	}

	// 放行后再同步一次应重新跑
	assert.Equal(t, int64(0), countUnsynced(t, db, &model.UserSessionLog{}))
}
