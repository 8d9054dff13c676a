package shopping

import (
	"context"
	"fmt"
	"sync"

	"shopping-planner/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// CheckStateRepository 勾選狀態的持久化邊界
// 遠端儲存是跨裝置的最終依據；Save 不論批次大小都只發出一次遠端請求
type CheckStateRepository interface {
	// Load 讀取整份勾選狀態快照，鍵為 CheckKey 複合鍵
	Load(ctx context.Context, planID string) (map[string]bool, error)
	// Save 寫入一批勾選狀態變更
	Save(ctx context.Context, planID string, entries map[string]bool) error
	// Clear 清除該計畫的全部勾選狀態
	Clear(ctx context.Context, planID string) error
}

// MemoryCheckStateRepository 記憶體實作，供測試與單機部署使用
type MemoryCheckStateRepository struct {
	mu    sync.RWMutex
	plans map[string]map[string]bool
}

// NewMemoryCheckStateRepository 創建記憶體勾選狀態儲存
func NewMemoryCheckStateRepository() *MemoryCheckStateRepository {
	return &MemoryCheckStateRepository{
		plans: make(map[string]map[string]bool),
	}
}

// Load 讀取勾選狀態快照
func (r *MemoryCheckStateRepository) Load(ctx context.Context, planID string) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[string]bool, len(r.plans[planID]))
	for key, checked := range r.plans[planID] {
		snapshot[key] = checked
	}
	return snapshot, nil
}

// Save 寫入一批勾選狀態
func (r *MemoryCheckStateRepository) Save(ctx context.Context, planID string, entries map[string]bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	plan, ok := r.plans[planID]
	if !ok {
		plan = make(map[string]bool)
		r.plans[planID] = plan
	}
	for key, checked := range entries {
		plan[key] = checked
	}
	return nil
}

// Clear 清除該計畫的勾選狀態
func (r *MemoryCheckStateRepository) Clear(ctx context.Context, planID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.plans, planID)
	return nil
}

// RedisCheckStateRepository Redis 實作，每個計畫一個 hash
type RedisCheckStateRepository struct {
	client *redis.Client
}

// NewRedisCheckStateRepository 創建 Redis 勾選狀態儲存
func NewRedisCheckStateRepository(cfg *config.RedisConfig) (*RedisCheckStateRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCheckStateRepository{client: client}, nil
}

// Load 讀取勾選狀態快照
func (r *RedisCheckStateRepository) Load(ctx context.Context, planID string) (map[string]bool, error) {
	data, err := r.client.HGetAll(ctx, r.redisKey(planID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load check state: %w", err)
	}

	snapshot := make(map[string]bool, len(data))
	for key, value := range data {
		snapshot[key] = value == "1"
	}
	return snapshot, nil
}

// Save 以單一 HSET 寫入一批勾選狀態
func (r *RedisCheckStateRepository) Save(ctx context.Context, planID string, entries map[string]bool) error {
	if len(entries) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(entries)*2)
	for key, checked := range entries {
		value := "0"
		if checked {
			value = "1"
		}
		values = append(values, key, value)
	}

	if err := r.client.HSet(ctx, r.redisKey(planID), values...).Err(); err != nil {
		return fmt.Errorf("failed to save check state: %w", err)
	}
	return nil
}

// Clear 刪除該計畫的 hash
func (r *RedisCheckStateRepository) Clear(ctx context.Context, planID string) error {
	if err := r.client.Del(ctx, r.redisKey(planID)).Err(); err != nil {
		return fmt.Errorf("failed to clear check state: %w", err)
	}
	return nil
}

// Close 關閉 Redis 連線
func (r *RedisCheckStateRepository) Close() error {
	return r.client.Close()
}

// redisKey 生成該計畫的 Redis 鍵
func (r *RedisCheckStateRepository) redisKey(planID string) string {
	return fmt.Sprintf("shopping:checkstate:%s", planID)
}
