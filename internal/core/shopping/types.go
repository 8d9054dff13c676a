package shopping

import (
	"strings"

	"shopping-planner/internal/pkg/common"
)

// IngredientOccurrence 單次食材出現紀錄，附帶來源資訊供追溯
// 僅為合併過程的中間產物，不會被保存
type IngredientOccurrence struct {
	Name        string
	Quantity    common.Quantity
	Unit        string
	RecipeTitle string
	Day         string
	MealType    string
}

// MergeKey 合併鍵，以結構相等取代字串拼接，避免名稱含連字號時的鍵碰撞
type MergeKey struct {
	CanonicalName string // 小寫的標準名稱
	Unit          string // 空字串視為一種單位，不與其他單位合併
}

// ConsolidatedIngredient 合併後的單一採購項目
type ConsolidatedIngredient struct {
	Name     string           `json:"name"` // 顯示名稱（首次出現的標準名稱）
	Quantity common.Quantity  `json:"quantity"`
	Unit     string           `json:"unit"`
	Recipes  []string         `json:"recipes"` // 使用此食材的食譜，已去重排序
	Category ShoppingCategory `json:"category"`
}

// Summary 購物清單摘要
type Summary struct {
	TotalItems   int `json:"total_items"`   // 合併後的項目數
	TotalRecipes int `json:"total_recipes"` // 貢獻食材的食譜數
}

// CategorizedList 依分類整理後的購物清單
type CategorizedList struct {
	PlanName   string                                        `json:"plan_name"`
	Week       string                                        `json:"week"`
	Categories []ShoppingCategory                            `json:"categories"` // 固定順序，僅含非空分類
	Items      map[ShoppingCategory][]ConsolidatedIngredient `json:"items"`
	Summary    Summary                                       `json:"summary"`
}

// CheckKey 勾選狀態的複合鍵：分類 + "-" + 小寫項目名稱
func CheckKey(category ShoppingCategory, itemName string) string {
	return string(category) + "-" + strings.ToLower(itemName)
}
