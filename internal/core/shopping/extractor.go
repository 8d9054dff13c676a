package shopping

import (
	"shopping-planner/internal/pkg/common"
)

// ExtractOccurrences 走訪一週的餐點計畫，攤平為依序的食材出現紀錄
// 星期依固定順序走訪，單日內餐次依穩定順序走訪，食譜內的食材保持原始順序
// 未解析食譜內容的餐次（recipeDetails 缺失）直接略過，不視為錯誤
func ExtractOccurrences(plan *common.MealPlan) []IngredientOccurrence {
	if plan == nil {
		return nil
	}

	var occurrences []IngredientOccurrence
	for _, day := range common.WeekDays {
		dayPlan, ok := plan.Plan[day]
		if !ok {
			continue
		}
		for _, mealType := range common.OrderedMealTypes(dayPlan) {
			slot := dayPlan[mealType]
			if slot.RecipeDetails == nil {
				continue
			}
			for _, ing := range slot.RecipeDetails.Ingredients {
				occurrences = append(occurrences, IngredientOccurrence{
					Name:        ing.Name,
					Quantity:    ing.Quantity,
					Unit:        ing.Unit,
					RecipeTitle: slot.RecipeDetails.Title,
					Day:         day,
					MealType:    mealType,
				})
			}
		}
	}
	return occurrences
}

// CountRecipes 計算整份計畫中有解析內容的不同食譜數量
// 以食譜參照為準去重，同名但參照不同的食譜各算一個；缺少參照時退回標題
func CountRecipes(plan *common.MealPlan) int {
	if plan == nil {
		return 0
	}

	seen := make(map[string]struct{})
	for _, dayPlan := range plan.Plan {
		for _, slot := range dayPlan {
			if slot.RecipeDetails == nil {
				continue
			}
			key := string(slot.Recipe)
			if key == "" || key == "null" {
				key = "title:" + slot.RecipeDetails.Title
			}
			seen[key] = struct{}{}
		}
	}
	return len(seen)
}

// DistinctNames 收集出現紀錄中不同的原始名稱（保留原大小寫），供批次正規化
func DistinctNames(occurrences []IngredientOccurrence) []string {
	seen := make(map[string]struct{}, len(occurrences))
	var names []string
	for _, occ := range occurrences {
		if _, ok := seen[occ.Name]; ok {
			continue
		}
		seen[occ.Name] = struct{}{}
		names = append(names, occ.Name)
	}
	return names
}
