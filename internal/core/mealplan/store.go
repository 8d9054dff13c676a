package mealplan

import (
	"sync"
	"time"

	"shopping-planner/internal/infrastructure/config"
	"shopping-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 週計畫儲存，保存各 plan id 目前的 MealPlan 文件
// 每次寫入會換發新的 revision，供過期的正規化回應比對後丟棄
type Store struct {
	config *config.Config
	mu     sync.RWMutex
	plans  map[string]planEntry
	stats  storeStats
}

// planEntry 儲存條目
type planEntry struct {
	plan       *common.MealPlan
	revision   string
	expiresAt  time.Time
	createdAt  time.Time
	lastAccess time.Time
}

// storeStats 儲存統計
type storeStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewStore 創建週計畫儲存
func NewStore(cfg *config.Config) *Store {
	s := &Store{
		config: cfg,
		plans:  make(map[string]planEntry),
		stats:  storeStats{},
	}

	// 啟動清理過期條目的協程
	go s.startCleanup()

	common.LogInfo("週計畫儲存已初始化",
		zap.Int("最大容量", cfg.PlanStore.MaxSize),
		zap.Duration("存活時間", cfg.PlanStore.TTL),
		zap.Duration("清理間隔", cfg.PlanStore.CleanupInterval),
	)

	return s
}

// Put 寫入或取代週計畫，回傳新的 revision
func (s *Store) Put(planID string, plan *common.MealPlan) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 檢查容量
	if _, exists := s.plans[planID]; !exists && len(s.plans) >= s.config.PlanStore.MaxSize {
		s.cleanupLocked()
		if len(s.plans) >= s.config.PlanStore.MaxSize {
			s.evictOldestLocked()
		}
	}

	now := time.Now()
	revision := common.GenerateUUID()
	s.plans[planID] = planEntry{
		plan:       plan,
		revision:   revision,
		expiresAt:  now.Add(s.config.PlanStore.TTL),
		createdAt:  now,
		lastAccess: now,
	}

	common.LogInfo("週計畫已儲存",
		zap.String("plan_id", planID),
		zap.String("revision", revision),
	)

	return revision
}

// Get 讀取週計畫及其目前 revision
func (s *Store) Get(planID string) (*common.MealPlan, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.plans[planID]
	if !exists {
		s.stats.misses++
		return nil, "", false
	}

	// 檢查是否過期
	if time.Now().After(entry.expiresAt) {
		delete(s.plans, planID)
		s.stats.evictions++
		s.stats.misses++
		common.LogInfo("週計畫已過期",
			zap.String("plan_id", planID),
		)
		return nil, "", false
	}

	entry.lastAccess = time.Now()
	s.plans[planID] = entry
	s.stats.hits++
	return entry.plan, entry.revision, true
}

// Revision 讀取週計畫目前的 revision，不更新存取時間
func (s *Store) Revision(planID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.plans[planID]
	if !exists || time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.revision, true
}

// Delete 刪除週計畫
func (s *Store) Delete(planID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.plans, planID)
}

// startCleanup 啟動清理過期條目的協程
func (s *Store) startCleanup() {
	ticker := time.NewTicker(s.config.PlanStore.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		count := s.cleanupLocked()
		s.mu.Unlock()
		if count > 0 {
			common.LogInfo("清理過期週計畫",
				zap.Int("count", count),
			)
		}
	}
}

// cleanupLocked 清理過期條目，呼叫方須持有寫鎖
func (s *Store) cleanupLocked() int {
	now := time.Now()
	count := 0
	for id, entry := range s.plans {
		if now.After(entry.expiresAt) {
			delete(s.plans, id)
			count++
			s.stats.evictions++
		}
	}
	return count
}

// evictOldestLocked 淘汰最久未存取的條目，呼叫方須持有寫鎖
func (s *Store) evictOldestLocked() {
	var oldestID string
	var oldestAccess time.Time

	for id, entry := range s.plans {
		if oldestID == "" || entry.lastAccess.Before(oldestAccess) {
			oldestID = id
			oldestAccess = entry.lastAccess
		}
	}

	if oldestID != "" {
		delete(s.plans, oldestID)
		s.stats.evictions++
		common.LogInfo("週計畫已淘汰(LRU)",
			zap.String("plan_id", oldestID),
		)
	}
}

// GetStats 獲取儲存統計信息
func (s *Store) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"size":      len(s.plans),
		"max_size":  s.config.PlanStore.MaxSize,
		"hits":      s.stats.hits,
		"misses":    s.stats.misses,
		"evictions": s.stats.evictions,
	}
}
