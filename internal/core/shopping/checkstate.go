package shopping

import (
	"context"
	"fmt"
	"sync"

	"shopping-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// CheckStateStore 勾選狀態機
// 每個 (分類, 項目) 鍵在 unchecked 與 checked 間來回切換，沒有終止狀態
// 本地快取為樂觀投影，遠端儲存為最終依據；本地快取只由本元件讀寫
// 遠端保存失敗時回滾本地變更並回報錯誤（明確的設計決定，非靜默吞掉）
type CheckStateStore struct {
	repo     CheckStateRepository
	mu       sync.RWMutex
	cache    map[string]map[string]bool // planID -> 複合鍵 -> 勾選狀態
	hydrated map[string]bool            // 是否已從遠端載入快照
}

// NewCheckStateStore 創建勾選狀態機
func NewCheckStateStore(repo CheckStateRepository) *CheckStateStore {
	return &CheckStateStore{
		repo:     repo,
		cache:    make(map[string]map[string]bool),
		hydrated: make(map[string]bool),
	}
}

// ensureHydrated 首次存取時以遠端快照取代本地狀態
// 重建是整份取代而非合併：以鍵對應，與陣列位置無關
func (s *CheckStateStore) ensureHydrated(ctx context.Context, planID string) error {
	s.mu.RLock()
	done := s.hydrated[planID]
	s.mu.RUnlock()
	if done {
		return nil
	}

	snapshot, err := s.repo.Load(ctx, planID)
	if err != nil {
		return fmt.Errorf("failed to hydrate check state: %w", err)
	}

	s.mu.Lock()
	s.cache[planID] = snapshot
	s.hydrated[planID] = true
	s.mu.Unlock()

	common.LogInfo("勾選狀態已載入",
		zap.String("plan_id", planID),
		zap.Int("鍵數量", len(snapshot)),
	)
	return nil
}

// IsChecked 查詢單一項目的勾選狀態，未知的鍵視為未勾選
func (s *CheckStateStore) IsChecked(ctx context.Context, planID string, category ShoppingCategory, itemName string) (bool, error) {
	if err := s.ensureHydrated(ctx, planID); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[planID][CheckKey(category, itemName)], nil
}

// Snapshot 回傳該計畫目前的勾選狀態快照
func (s *CheckStateStore) Snapshot(ctx context.Context, planID string) (map[string]bool, error) {
	if err := s.ensureHydrated(ctx, planID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]bool, len(s.cache[planID]))
	for key, checked := range s.cache[planID] {
		snapshot[key] = checked
	}
	return snapshot, nil
}

// applyAndPersist 樂觀更新本地快取後保存到遠端，失敗時回滾
// entries 不論大小只對應一次遠端請求，將請求數上限控制在 O(分類) 而非 O(項目)
func (s *CheckStateStore) applyAndPersist(ctx context.Context, planID string, entries map[string]bool) error {
	if len(entries) == 0 {
		return nil
	}

	// 樂觀更新，記住舊值供回滾
	s.mu.Lock()
	plan, ok := s.cache[planID]
	if !ok {
		plan = make(map[string]bool)
		s.cache[planID] = plan
	}
	previous := make(map[string]bool, len(entries))
	for key, checked := range entries {
		previous[key] = plan[key]
		plan[key] = checked
	}
	s.mu.Unlock()

	if err := s.repo.Save(ctx, planID, entries); err != nil {
		// 回滾本地變更
		s.mu.Lock()
		for key, old := range previous {
			s.cache[planID][key] = old
		}
		s.mu.Unlock()

		common.LogError("勾選狀態保存失敗，已回滾本地變更",
			zap.Error(err),
			zap.String("plan_id", planID),
			zap.Int("鍵數量", len(entries)),
		)
		return fmt.Errorf("failed to persist check state: %w", err)
	}
	return nil
}

// SetItems 將一批複合鍵設為指定勾選狀態
func (s *CheckStateStore) SetItems(ctx context.Context, planID string, keys []string, checked bool) error {
	if err := s.ensureHydrated(ctx, planID); err != nil {
		return err
	}

	entries := make(map[string]bool, len(keys))
	for _, key := range keys {
		entries[key] = checked
	}
	return s.applyAndPersist(ctx, planID, entries)
}

// SetCategory 將分類目前的所有項目設為指定勾選狀態
func (s *CheckStateStore) SetCategory(ctx context.Context, planID string, category ShoppingCategory, itemNames []string, checked bool) error {
	if err := s.ensureHydrated(ctx, planID); err != nil {
		return err
	}

	entries := make(map[string]bool, len(itemNames))
	for _, name := range itemNames {
		entries[CheckKey(category, name)] = checked
	}
	return s.applyAndPersist(ctx, planID, entries)
}

// SetAll 將所有分類的所有項目設為指定勾選狀態
func (s *CheckStateStore) SetAll(ctx context.Context, planID string, itemsByCategory map[ShoppingCategory][]string, checked bool) error {
	if err := s.ensureHydrated(ctx, planID); err != nil {
		return err
	}

	entries := make(map[string]bool)
	for category, names := range itemsByCategory {
		for _, name := range names {
			entries[CheckKey(category, name)] = checked
		}
	}
	return s.applyAndPersist(ctx, planID, entries)
}

// ToggleItem 翻轉單一項目，回傳新的勾選狀態
// 連續翻轉兩次會回到原值
func (s *CheckStateStore) ToggleItem(ctx context.Context, planID string, category ShoppingCategory, itemName string) (bool, error) {
	current, err := s.IsChecked(ctx, planID, category, itemName)
	if err != nil {
		return false, err
	}

	target := !current
	if err := s.SetItems(ctx, planID, []string{CheckKey(category, itemName)}, target); err != nil {
		return current, err
	}
	return target, nil
}

// ToggleCategory 依多數翻轉規則切換整個分類
// 以呼叫當下的項目集合重新計算 allChecked：全部已勾選則取消全部，否則勾選全部
// 計畫被編輯後分類的項目集合會變動，因此每次都用目前集合，不得使用快取的項目清單
func (s *CheckStateStore) ToggleCategory(ctx context.Context, planID string, category ShoppingCategory, itemNames []string) (bool, error) {
	if len(itemNames) == 0 {
		return false, nil
	}
	if err := s.ensureHydrated(ctx, planID); err != nil {
		return false, err
	}

	s.mu.RLock()
	allChecked := true
	for _, name := range itemNames {
		if !s.cache[planID][CheckKey(category, name)] {
			allChecked = false
			break
		}
	}
	s.mu.RUnlock()

	target := !allChecked
	if err := s.SetCategory(ctx, planID, category, itemNames, target); err != nil {
		return allChecked, err
	}
	return target, nil
}

// ToggleAll 對所有分類的所有項目套用同一條多數翻轉規則
func (s *CheckStateStore) ToggleAll(ctx context.Context, planID string, itemsByCategory map[ShoppingCategory][]string) (bool, error) {
	total := 0
	for _, names := range itemsByCategory {
		total += len(names)
	}
	if total == 0 {
		return false, nil
	}
	if err := s.ensureHydrated(ctx, planID); err != nil {
		return false, err
	}

	s.mu.RLock()
	allChecked := true
	for category, names := range itemsByCategory {
		for _, name := range names {
			if !s.cache[planID][CheckKey(category, name)] {
				allChecked = false
				break
			}
		}
		if !allChecked {
			break
		}
	}
	s.mu.RUnlock()

	target := !allChecked
	if err := s.SetAll(ctx, planID, itemsByCategory, target); err != nil {
		return allChecked, err
	}
	return target, nil
}

// Reset 清除該計畫的所有勾選狀態，本地與遠端一併清空
func (s *CheckStateStore) Reset(ctx context.Context, planID string) error {
	if err := s.repo.Clear(ctx, planID); err != nil {
		return fmt.Errorf("failed to reset check state: %w", err)
	}

	s.mu.Lock()
	s.cache[planID] = make(map[string]bool)
	s.hydrated[planID] = true
	s.mu.Unlock()

	common.LogInfo("勾選狀態已重設",
		zap.String("plan_id", planID),
	)
	return nil
}

// Forget 移除該計畫的本地快取，下次存取時重新從遠端載入
func (s *CheckStateStore) Forget(planID string) {
	s.mu.Lock()
	delete(s.cache, planID)
	delete(s.hydrated, planID)
	s.mu.Unlock()
}
