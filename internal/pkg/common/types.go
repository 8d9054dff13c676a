package common

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Quantity 食材數量，來源資料可能是數字或自由文字（例如「少許」）
// 非數字內容必須原樣保留，不可強制轉型
type Quantity struct {
	Raw     string  // 原始字串表示
	Value   float64 // 數值（僅在 Numeric 為 true 時有效）
	Numeric bool    // 是否為數值
}

// NumericQuantity 建立數值數量
func NumericQuantity(v float64) Quantity {
	return Quantity{Raw: formatFloat(v), Value: v, Numeric: true}
}

// TextQuantity 建立文字數量
func TextQuantity(s string) Quantity {
	return Quantity{Raw: s}
}

// String 回傳數量的顯示字串
func (q Quantity) String() string {
	if q.Numeric {
		return formatFloat(q.Value)
	}
	return q.Raw
}

// UnmarshalJSON 接受 JSON 數字或字串
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		if v, convErr := n.Float64(); convErr == nil {
			*q = Quantity{Raw: n.String(), Value: v, Numeric: true}
			return nil
		}
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("quantity must be a number or a string: %w", err)
	}

	// 字串內容若本身是數字，仍視為數值處理
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		*q = Quantity{Raw: s, Value: v, Numeric: true}
		return nil
	}
	*q = Quantity{Raw: s}
	return nil
}

// MarshalJSON 數值輸出為 JSON 數字，其餘輸出為字串
func (q Quantity) MarshalJSON() ([]byte, error) {
	if q.Numeric {
		return json.Marshal(q.Value)
	}
	return json.Marshal(q.Raw)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RawIngredient 食譜中列出的單一食材
type RawIngredient struct {
	Name     string   `json:"name"`
	Quantity Quantity `json:"quantity"`
	Unit     string   `json:"unit"`
}

// RecipeDetails 已解析的食譜內容
type RecipeDetails struct {
	Title         string          `json:"title"`
	FeaturedImage string          `json:"featuredImage,omitempty"`
	CookingTime   string          `json:"cookingTime,omitempty"`
	Cuisine       string          `json:"cuisine,omitempty"`
	Difficulty    string          `json:"difficulty,omitempty"`
	Ingredients   []RawIngredient `json:"ingredients,omitempty"`
}

// MealSlot 一天中的單一餐次指派
type MealSlot struct {
	MealType      string          `json:"mealType"`
	Recipe        json.RawMessage `json:"recipe,omitempty"` // 字串或物件，僅作為參照保留
	RecipeDetails *RecipeDetails  `json:"recipeDetails,omitempty"`
}

// DayPlan 一天的餐次表，鍵為餐次名稱
type DayPlan map[string]MealSlot

// MealPlan 一週的餐點計畫文件
type MealPlan struct {
	Name  string             `json:"name"`
	Week  string             `json:"week"`
	Plan  map[string]DayPlan `json:"plan"`
	Notes string             `json:"notes,omitempty"`
}

// WeekDays 固定的星期順序
var WeekDays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// 常見餐次的固定順序，其餘餐次依名稱排序附於其後
var mealOrder = map[string]int{
	"breakfast": 0,
	"lunch":     1,
	"dinner":    2,
	"snack":     3,
}

// OrderedMealTypes 回傳一天內餐次的穩定走訪順序
func OrderedMealTypes(day DayPlan) []string {
	types := make([]string, 0, len(day))
	for mealType := range day {
		types = append(types, mealType)
	}
	sort.Slice(types, func(i, j int) bool {
		oi, iok := mealOrder[types[i]]
		oj, jok := mealOrder[types[j]]
		switch {
		case iok && jok:
			return oi < oj
		case iok:
			return true
		case jok:
			return false
		default:
			return types[i] < types[j]
		}
	})
	return types
}
