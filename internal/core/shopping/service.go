package shopping

import (
	"context"
	"sync"

	"shopping-planner/internal/core/mealplan"
	"shopping-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// 同一計畫的正規化呼叫最多重試次數
// 超過表示計畫持續變動，放棄正規化並以原始名稱繼續
const maxConsolidateAttempts = 3

// Service 購物清單引擎
// 一次合併流程依序執行：萃取 → 正規化 → 合併 → 分類 → 彙整
// 同一計畫同時只允許一個正規化呼叫在途；計畫在呼叫期間被改動時，過期的回應直接丟棄
type Service struct {
	plans      *mealplan.Store
	normalizer Normalizer
	checkState *CheckStateStore

	mu       sync.Mutex
	inFlight map[string]bool // planID -> 是否有正規化呼叫在途
}

// NewService 創建購物清單引擎
func NewService(plans *mealplan.Store, normalizer Normalizer, checkState *CheckStateStore) *Service {
	return &Service{
		plans:      plans,
		normalizer: normalizer,
		checkState: checkState,
		inFlight:   make(map[string]bool),
	}
}

// CheckState 勾選狀態機
func (s *Service) CheckState() *CheckStateStore {
	return s.checkState
}

// Consolidate 對指定計畫執行一次完整的合併流程
// 計畫不存在時回傳 common.ErrPlanNotFound；沒有任何食材的計畫回傳空彙整，不是錯誤
func (s *Service) Consolidate(ctx context.Context, planID string) (*CategorizedList, error) {
	for attempt := 0; attempt < maxConsolidateAttempts; attempt++ {
		plan, revision, ok := s.plans.Get(planID)
		if !ok {
			return nil, common.ErrPlanNotFound
		}

		occurrences := ExtractOccurrences(plan)
		recipeCount := CountRecipes(plan)

		mapping := s.normalize(ctx, planID, occurrences)

		// 過期檢查：正規化期間計畫被改動時丟棄這次結果，用新計畫重跑
		if current, exists := s.plans.Revision(planID); !exists || current != revision {
			common.LogWarn("計畫在合併期間被改動，丟棄過期結果重跑",
				zap.String("plan_id", planID),
				zap.Int("attempt", attempt+1),
			)
			continue
		}

		consolidated := Merge(occurrences, mapping)
		list := BuildAggregate(plan.Name, plan.Week, consolidated, recipeCount)

		common.LogInfo("購物清單合併完成",
			zap.String("plan_id", planID),
			zap.Int("出現次數", len(occurrences)),
			zap.Int("項目數", list.Summary.TotalItems),
			zap.Int("食譜數", list.Summary.TotalRecipes),
		)
		return list, nil
	}

	// 計畫持續變動：以目前狀態不經正規化完成合併
	plan, _, ok := s.plans.Get(planID)
	if !ok {
		return nil, common.ErrPlanNotFound
	}
	occurrences := ExtractOccurrences(plan)
	consolidated := Merge(occurrences, nil)
	return BuildAggregate(plan.Name, plan.Week, consolidated, CountRecipes(plan)), nil
}

// normalize 批次呼叫正規化服務並吸收所有失敗
// 正規化只是建議：服務失敗、部分結果或已有呼叫在途時，一律退回原始名稱
func (s *Service) normalize(ctx context.Context, planID string, occurrences []IngredientOccurrence) map[string]string {
	names := DistinctNames(occurrences)
	if len(names) == 0 {
		return nil
	}

	// 同一計畫不重複發出並行的正規化呼叫
	s.mu.Lock()
	if s.inFlight[planID] {
		s.mu.Unlock()
		common.LogDebug("正規化呼叫已在途，改用原始名稱",
			zap.String("plan_id", planID),
		)
		return nil
	}
	s.inFlight[planID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, planID)
		s.mu.Unlock()
	}()

	mapping, err := s.normalizer.NormalizeNames(ctx, names)
	if err != nil {
		// 靜默降級：每個名稱以自己為標準名稱
		return nil
	}
	return mapping
}
