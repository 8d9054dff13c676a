package shopping

import (
	"sort"
	"strings"
)

// BuildAggregate 依分類整理合併後的項目
// 分類依賣場動線固定順序排列（Other 永遠最後），分類內項目依名稱排序
func BuildAggregate(planName, week string, items []ConsolidatedIngredient, recipeCount int) *CategorizedList {
	grouped := make(map[ShoppingCategory][]ConsolidatedIngredient)
	for _, item := range items {
		grouped[item.Category] = append(grouped[item.Category], item)
	}

	list := &CategorizedList{
		PlanName: planName,
		Week:     week,
		Items:    make(map[ShoppingCategory][]ConsolidatedIngredient),
		Summary: Summary{
			TotalItems:   len(items),
			TotalRecipes: recipeCount,
		},
	}

	for _, category := range CategoryOrder {
		categoryItems, ok := grouped[category]
		if !ok {
			continue
		}
		sort.Slice(categoryItems, func(i, j int) bool {
			return strings.ToLower(categoryItems[i].Name) < strings.ToLower(categoryItems[j].Name)
		})
		list.Categories = append(list.Categories, category)
		list.Items[category] = categoryItems
	}

	return list
}

// ItemNames 回傳指定分類中目前的項目名稱
func (l *CategorizedList) ItemNames(category ShoppingCategory) []string {
	items, ok := l.Items[category]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}
