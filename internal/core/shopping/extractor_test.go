package shopping

import (
	"reflect"
	"testing"

	"shopping-planner/internal/pkg/common"
)

func slotWithIngredients(mealType, title string, ingredients ...common.RawIngredient) common.MealSlot {
	return common.MealSlot{
		MealType: mealType,
		RecipeDetails: &common.RecipeDetails{
			Title:       title,
			Ingredients: ingredients,
		},
	}
}

func testPlan() *common.MealPlan {
	return &common.MealPlan{
		Name: "Week 12",
		Week: "2026-03-16",
		Plan: map[string]common.DayPlan{
			"tuesday": {
				"breakfast": slotWithIngredients("breakfast", "Recipe B",
					common.RawIngredient{Name: "eggs", Quantity: common.NumericQuantity(1), Unit: "count"},
				),
			},
			"monday": {
				"dinner": slotWithIngredients("dinner", "Pasta Night",
					common.RawIngredient{Name: "pasta", Quantity: common.NumericQuantity(500), Unit: "g"},
					common.RawIngredient{Name: "tomatoes", Quantity: common.NumericQuantity(3), Unit: "count"},
				),
				"breakfast": slotWithIngredients("breakfast", "Recipe A",
					common.RawIngredient{Name: "eggs", Quantity: common.NumericQuantity(2), Unit: "count"},
				),
				// 未解析的食譜參照：沒有 recipeDetails，直接略過
				"lunch": {MealType: "lunch"},
			},
		},
	}
}

func TestExtractOccurrencesOrderAndProvenance(t *testing.T) {
	occurrences := ExtractOccurrences(testPlan())

	// 星期一早餐 → 星期一晚餐（食譜內順序不變）→ 星期二早餐
	expected := []struct {
		name, day, mealType, recipe string
	}{
		{"eggs", "monday", "breakfast", "Recipe A"},
		{"pasta", "monday", "dinner", "Pasta Night"},
		{"tomatoes", "monday", "dinner", "Pasta Night"},
		{"eggs", "tuesday", "breakfast", "Recipe B"},
	}

	if len(occurrences) != len(expected) {
		t.Fatalf("expected %d occurrences, got %d", len(expected), len(occurrences))
	}
	for i, exp := range expected {
		got := occurrences[i]
		if got.Name != exp.name || got.Day != exp.day || got.MealType != exp.mealType || got.RecipeTitle != exp.recipe {
			t.Errorf("occurrence %d: expected %+v, got %+v", i, exp, got)
		}
	}
}

func TestExtractOccurrencesEmptyPlan(t *testing.T) {
	if got := ExtractOccurrences(&common.MealPlan{Name: "empty"}); len(got) != 0 {
		t.Errorf("expected no occurrences, got %d", len(got))
	}
	if got := ExtractOccurrences(nil); got != nil {
		t.Errorf("expected nil for nil plan, got %v", got)
	}
}

func TestCountRecipes(t *testing.T) {
	if got := CountRecipes(testPlan()); got != 3 {
		t.Errorf("expected 3 distinct recipes, got %d", got)
	}
	if got := CountRecipes(&common.MealPlan{}); got != 0 {
		t.Errorf("expected 0 recipes for empty plan, got %d", got)
	}
}

func refSlot(mealType, ref, title string) common.MealSlot {
	return common.MealSlot{
		MealType:      mealType,
		Recipe:        []byte(`"` + ref + `"`),
		RecipeDetails: &common.RecipeDetails{Title: title},
	}
}

func TestCountRecipesKeysOnRecipeRef(t *testing.T) {
	// 同名但參照不同的食譜各算一個
	plan := &common.MealPlan{
		Plan: map[string]common.DayPlan{
			"monday": {
				"lunch":  refSlot("lunch", "recipe-1", "House Curry"),
				"dinner": refSlot("dinner", "recipe-2", "House Curry"),
			},
		},
	}
	if got := CountRecipes(plan); got != 2 {
		t.Errorf("distinct refs sharing a title must count separately, got %d", got)
	}

	// 同一參照出現兩次只算一個
	plan = &common.MealPlan{
		Plan: map[string]common.DayPlan{
			"monday": {
				"lunch": refSlot("lunch", "recipe-1", "House Curry"),
			},
			"tuesday": {
				"dinner": refSlot("dinner", "recipe-1", "House Curry"),
			},
		},
	}
	if got := CountRecipes(plan); got != 1 {
		t.Errorf("repeated ref must count once, got %d", got)
	}
}

func TestDistinctNamesPreservesCaseAndOrder(t *testing.T) {
	occurrences := []IngredientOccurrence{
		{Name: "Eggs"},
		{Name: "eggs"},
		{Name: "Eggs"},
		{Name: "flour"},
	}

	got := DistinctNames(occurrences)
	expected := []string{"Eggs", "eggs", "flour"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}
