package shoppinglist

import (
	"errors"
	"net/http"

	"shopping-planner/internal/core/mealplan"
	"shopping-planner/internal/core/shopping"
	"shopping-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckRequest 勾選狀態變更請求，四種形態擇一：
// {items, checked}、{category, checked}、{checkAll, checked}，或由 reset 端點清空
type CheckRequest struct {
	Items    []string `json:"items,omitempty"`    // 複合鍵（分類-小寫項目名稱）
	Category string   `json:"category,omitempty"` // 分類名稱
	CheckAll bool     `json:"checkAll,omitempty"` // 套用到全部項目
	Checked  *bool    `json:"checked" binding:"required"`
}

// StatusResponse 勾選狀態快照響應
type StatusResponse struct {
	PlanID string          `json:"plan_id"`
	Status map[string]bool `json:"status"`
}

// Handler 購物清單處理程序
type Handler struct {
	plans   *mealplan.Store
	service *shopping.Service
}

// NewHandler 創建購物清單處理程序
func NewHandler(plans *mealplan.Store, service *shopping.Service) *Handler {
	return &Handler{
		plans:   plans,
		service: service,
	}
}

// requestID 取出或補發請求 ID
func requestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = common.GenerateUUID()
		c.Header("X-Request-ID", id)
	}
	return id
}

// planID 取出路徑中的計畫 ID，缺失屬於前置條件失敗
func planID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing plan id",
			"code":  common.ErrMissingPlanID.Code,
		})
		return "", false
	}
	return id, true
}

// HandleRegisterPlan 寫入或取代週計畫文件
func (h *Handler) HandleRegisterPlan(c *gin.Context) {
	reqID := requestID(c)

	id, ok := planID(c)
	if !ok {
		return
	}

	var plan common.MealPlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		common.LogError("週計畫格式無效",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid meal plan format",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	revision := h.plans.Put(id, &plan)

	common.LogInfo("週計畫已登錄",
		zap.String("plan_id", id),
		zap.String("revision", revision),
		zap.String("request_id", reqID),
	)

	c.JSON(http.StatusOK, gin.H{
		"plan_id":  id,
		"revision": revision,
	})
}

// HandleCategorized 回傳依分類彙整的購物清單與摘要
// 空計畫回傳空彙整與 {items:0, recipes:0}，不是錯誤
func (h *Handler) HandleCategorized(c *gin.Context) {
	reqID := requestID(c)

	id, ok := planID(c)
	if !ok {
		return
	}

	list, err := h.service.Consolidate(c.Request.Context(), id)
	if err != nil {
		h.writeConsolidateError(c, reqID, id, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// HandleStatus 回傳目前的勾選狀態快照，鍵為複合鍵而非陣列位置
func (h *Handler) HandleStatus(c *gin.Context) {
	reqID := requestID(c)

	id, ok := planID(c)
	if !ok {
		return
	}

	snapshot, err := h.service.CheckState().Snapshot(c.Request.Context(), id)
	if err != nil {
		common.LogError("勾選狀態讀取失敗",
			zap.Error(err),
			zap.String("plan_id", id),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to load check state",
			"code":  common.ErrPersistenceFailed.Code,
		})
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		PlanID: id,
		Status: snapshot,
	})
}

// HandleCheck 套用一次勾選狀態變更
// 整批操作（checkAll 或 category）只對遠端發出一次請求
func (h *Handler) HandleCheck(c *gin.Context) {
	reqID := requestID(c)

	id, ok := planID(c)
	if !ok {
		return
	}

	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("勾選請求格式無效",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid check request format",
			"code":  common.ErrInvalidCheckBody.Code,
		})
		return
	}

	// 四種形態擇一
	shapes := 0
	if len(req.Items) > 0 {
		shapes++
	}
	if req.Category != "" {
		shapes++
	}
	if req.CheckAll {
		shapes++
	}
	if shapes != 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Exactly one of items, category or checkAll is required",
			"code":  common.ErrInvalidCheckBody.Code,
		})
		return
	}

	ctx := c.Request.Context()
	store := h.service.CheckState()
	checked := *req.Checked

	var err error
	switch {
	case len(req.Items) > 0:
		err = store.SetItems(ctx, id, req.Items, checked)

	case req.Category != "":
		category, known := shopping.ParseCategory(req.Category)
		if !known {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unknown category",
				"code":  common.ErrInvalidCheckBody.Code,
			})
			return
		}
		// 分類操作以呼叫當下的項目集合為準，不使用快取的清單
		var list *shopping.CategorizedList
		list, err = h.service.Consolidate(ctx, id)
		if err != nil {
			h.writeConsolidateError(c, reqID, id, err)
			return
		}
		err = store.SetCategory(ctx, id, category, list.ItemNames(category), checked)

	case req.CheckAll:
		var list *shopping.CategorizedList
		list, err = h.service.Consolidate(ctx, id)
		if err != nil {
			h.writeConsolidateError(c, reqID, id, err)
			return
		}
		itemsByCategory := make(map[shopping.ShoppingCategory][]string)
		for _, category := range list.Categories {
			itemsByCategory[category] = list.ItemNames(category)
		}
		err = store.SetAll(ctx, id, itemsByCategory, checked)
	}

	if err != nil {
		// 本地樂觀變更已回滾；回報失敗讓呼叫方知道伺服器狀態可能不同步
		common.LogError("勾選狀態保存失敗",
			zap.Error(err),
			zap.String("plan_id", id),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to persist check state",
			"code":  common.ErrPersistenceFailed.Code,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plan_id": id,
		"checked": checked,
	})
}

// HandleReset 清空該計畫的所有勾選狀態
func (h *Handler) HandleReset(c *gin.Context) {
	reqID := requestID(c)

	id, ok := planID(c)
	if !ok {
		return
	}

	if err := h.service.CheckState().Reset(c.Request.Context(), id); err != nil {
		common.LogError("勾選狀態重設失敗",
			zap.Error(err),
			zap.String("plan_id", id),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to reset check state",
			"code":  common.ErrPersistenceFailed.Code,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plan_id": id,
		"reset":   true,
	})
}

// HandlePrintable 輸出購物清單，format=json|text，預設 json
func (h *Handler) HandlePrintable(c *gin.Context) {
	reqID := requestID(c)

	id, ok := planID(c)
	if !ok {
		return
	}

	list, err := h.service.Consolidate(c.Request.Context(), id)
	if err != nil {
		h.writeConsolidateError(c, reqID, id, err)
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "text":
		c.String(http.StatusOK, shopping.ExportText(list))
	case "json":
		c.JSON(http.StatusOK, shopping.ExportPrintable(list))
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unsupported format, use json or text",
			"code":  common.ErrCodeInvalidRequest,
		})
	}
}

// writeConsolidateError 合併流程錯誤的統一回應
// 清單讀取失敗屬於可重試錯誤，不能呈現不一致的部分結果
func (h *Handler) writeConsolidateError(c *gin.Context, reqID, planID string, err error) {
	if errors.Is(err, common.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Meal plan not found",
			"code":  common.ErrPlanNotFound.Code,
		})
		return
	}

	common.LogError("購物清單彙整失敗",
		zap.Error(err),
		zap.String("plan_id", planID),
		zap.String("request_id", reqID),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Failed to build shopping list, please retry",
		"code":  common.ErrAggregateFailed.Code,
	})
}
