package shopping

import (
	"sort"
	"strings"

	"shopping-planner/internal/pkg/common"
)

// Merge 將出現紀錄合併為最小的採購項目集合
// mapping 為原始名稱到標準名稱的對照，查無對照時以原始名稱為標準名稱
// 合併鍵為 {小寫標準名稱, 單位}；單位不同的同名食材維持獨立的採購項目
// 輸出依合併鍵排序，確保相同輸入（不論順序）得到相同結果
func Merge(occurrences []IngredientOccurrence, mapping map[string]string) []ConsolidatedIngredient {
	type runningEntry struct {
		name     string // 顯示名稱，取同鍵標準名稱中字典序最小的拼寫，與輸入順序無關
		quantity common.Quantity
		unit     string
		recipes  map[string]struct{}
	}

	entries := make(map[MergeKey]*runningEntry)
	var keys []MergeKey

	for _, occ := range occurrences {
		canonical := occ.Name
		if mapped, ok := mapping[occ.Name]; ok && mapped != "" {
			canonical = mapped
		}

		key := MergeKey{
			CanonicalName: strings.ToLower(canonical),
			Unit:          occ.Unit,
		}

		entry, exists := entries[key]
		if !exists {
			entry = &runningEntry{
				name:     canonical,
				quantity: occ.Quantity,
				unit:     occ.Unit,
				recipes:  make(map[string]struct{}),
			}
			entries[key] = entry
			keys = append(keys, key)
		} else {
			if canonical < entry.name {
				entry.name = canonical
			}
			entry.quantity = mergeQuantities(entry.quantity, occ.Quantity)
		}

		if occ.RecipeTitle != "" {
			entry.recipes[occ.RecipeTitle] = struct{}{}
		}
	}

	// 穩定輸出順序：依合併鍵排序
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CanonicalName != keys[j].CanonicalName {
			return keys[i].CanonicalName < keys[j].CanonicalName
		}
		return keys[i].Unit < keys[j].Unit
	})

	result := make([]ConsolidatedIngredient, 0, len(keys))
	for _, key := range keys {
		entry := entries[key]

		recipes := make([]string, 0, len(entry.recipes))
		for title := range entry.recipes {
			recipes = append(recipes, title)
		}
		sort.Strings(recipes)

		result = append(result, ConsolidatedIngredient{
			Name:     entry.name,
			Quantity: entry.quantity,
			Unit:     entry.unit,
			Recipes:  recipes,
			Category: Categorize(entry.name),
		})
	}
	return result
}

// mergeQuantities 合併同一採購項目的兩個數量
// 兩邊皆為數值時相加；任一邊非數值時改為逗號串接的描述性字串
// 串接是刻意的精度取捨，讓使用者自行判讀，不視為錯誤
func mergeQuantities(running, next common.Quantity) common.Quantity {
	if running.Numeric && next.Numeric {
		return common.NumericQuantity(running.Value + next.Value)
	}
	return common.TextQuantity(running.String() + ", " + next.String())
}
