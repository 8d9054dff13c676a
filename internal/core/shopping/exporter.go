package shopping

import (
	"fmt"
	"strings"
)

// ExportText 將彙整結果輸出為純文字核對清單
// 每個項目一行「☐ 名稱: 數量 單位」，依分類加上標題，分類之間空一行
func ExportText(list *CategorizedList) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s (%s)\n", list.PlanName, list.Week))
	sb.WriteString(fmt.Sprintf("%d items from %d recipes\n", list.Summary.TotalItems, list.Summary.TotalRecipes))

	for _, category := range list.Categories {
		sb.WriteString("\n")
		sb.WriteString(string(category))
		sb.WriteString("\n")
		for _, item := range list.Items[category] {
			line := fmt.Sprintf("☐ %s: %s", item.Name, item.Quantity.String())
			if item.Unit != "" {
				line += " " + item.Unit
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// PrintableDocument 可列印文件
type PrintableDocument struct {
	PlanName   string             `json:"plan_name"`
	Week       string             `json:"week"`
	Categories []PrintableSection `json:"categories"`
	Summary    Summary            `json:"summary"`
}

// PrintableSection 可列印文件中的單一分類
type PrintableSection struct {
	Category ShoppingCategory `json:"category"`
	Items    []PrintableItem  `json:"items"`
}

// PrintableItem 可列印文件中的單一項目，附上貢獻食譜供「用於」標註
type PrintableItem struct {
	Name     string   `json:"name"`
	Quantity string   `json:"quantity"`
	Unit     string   `json:"unit"`
	Recipes  []string `json:"recipes"`
}

// ExportPrintable 將彙整結果輸出為可列印文件
// 純轉換，不讀寫勾選狀態
func ExportPrintable(list *CategorizedList) *PrintableDocument {
	doc := &PrintableDocument{
		PlanName: list.PlanName,
		Week:     list.Week,
		Summary:  list.Summary,
	}

	for _, category := range list.Categories {
		section := PrintableSection{Category: category}
		for _, item := range list.Items[category] {
			section.Items = append(section.Items, PrintableItem{
				Name:     item.Name,
				Quantity: item.Quantity.String(),
				Unit:     item.Unit,
				Recipes:  item.Recipes,
			})
		}
		doc.Categories = append(doc.Categories, section)
	}

	return doc
}
