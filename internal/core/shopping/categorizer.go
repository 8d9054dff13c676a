package shopping

import "strings"

// ShoppingCategory 購物分類，固定的封閉詞彙表
type ShoppingCategory string

const (
	CategoryProduce          ShoppingCategory = "Produce"
	CategoryMeatSeafood      ShoppingCategory = "Meat & Seafood"
	CategoryDairyEggs        ShoppingCategory = "Dairy & Eggs"
	CategoryBakery           ShoppingCategory = "Bakery"
	CategoryPantry           ShoppingCategory = "Pantry"
	CategoryCannedGoods      ShoppingCategory = "Canned Goods"
	CategoryFrozenFoods      ShoppingCategory = "Frozen Foods"
	CategoryCondimentsSpices ShoppingCategory = "Condiments & Spices"
	CategoryOther            ShoppingCategory = "Other"
)

// CategoryOrder 賣場動線順序，Other 永遠排最後
var CategoryOrder = []ShoppingCategory{
	CategoryProduce,
	CategoryMeatSeafood,
	CategoryDairyEggs,
	CategoryBakery,
	CategoryPantry,
	CategoryCannedGoods,
	CategoryFrozenFoods,
	CategoryCondimentsSpices,
	CategoryOther,
}

// ParseCategory 將字串解析為分類，未知字串回傳 false
func ParseCategory(s string) (ShoppingCategory, bool) {
	for _, c := range CategoryOrder {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

type categoryRule struct {
	keyword  string
	category ShoppingCategory
}

// 關鍵字規則，依序比對，先命中者優先
// 較長、較特定的關鍵字放前面，避免被較短的規則攔截
var categoryRules = []categoryRule{
	// 特定名稱優先，避免被後面較籠統的關鍵字攔截
	{"eggplant", CategoryProduce},
	{"bell pepper", CategoryProduce},
	{"chili pepper", CategoryProduce},
	{"peppers", CategoryProduce},
	{"peanut butter", CategoryPantry},
	{"cream of tartar", CategoryPantry},

	// 罐頭（先於一般食材比對，"canned tomatoes" 應歸罐頭而非蔬果）
	{"canned", CategoryCannedGoods},
	{"tomato paste", CategoryCannedGoods},
	{"tomato sauce", CategoryCannedGoods},
	{"coconut milk", CategoryCannedGoods},
	{"broth", CategoryCannedGoods},
	{"stock", CategoryCannedGoods},

	// 冷凍
	{"frozen", CategoryFrozenFoods},
	{"ice cream", CategoryFrozenFoods},

	// 調味料與香料
	{"soy sauce", CategoryCondimentsSpices},
	{"fish sauce", CategoryCondimentsSpices},
	{"hot sauce", CategoryCondimentsSpices},
	{"sauce", CategoryCondimentsSpices},
	{"vinegar", CategoryCondimentsSpices},
	{"mustard", CategoryCondimentsSpices},
	{"ketchup", CategoryCondimentsSpices},
	{"mayonnaise", CategoryCondimentsSpices},
	{"salt", CategoryCondimentsSpices},
	{"pepper", CategoryCondimentsSpices},
	{"paprika", CategoryCondimentsSpices},
	{"cumin", CategoryCondimentsSpices},
	{"oregano", CategoryCondimentsSpices},
	{"cinnamon", CategoryCondimentsSpices},
	{"curry", CategoryCondimentsSpices},
	{"chili powder", CategoryCondimentsSpices},
	{"spice", CategoryCondimentsSpices},
	{"seasoning", CategoryCondimentsSpices},

	// 肉類與海鮮
	{"chicken", CategoryMeatSeafood},
	{"beef", CategoryMeatSeafood},
	{"pork", CategoryMeatSeafood},
	{"lamb", CategoryMeatSeafood},
	{"turkey", CategoryMeatSeafood},
	{"bacon", CategoryMeatSeafood},
	{"sausage", CategoryMeatSeafood},
	{"ham", CategoryMeatSeafood},
	{"fish", CategoryMeatSeafood},
	{"salmon", CategoryMeatSeafood},
	{"tuna", CategoryMeatSeafood},
	{"shrimp", CategoryMeatSeafood},
	{"prawn", CategoryMeatSeafood},
	{"crab", CategoryMeatSeafood},
	{"steak", CategoryMeatSeafood},

	// 乳製品與蛋
	{"milk", CategoryDairyEggs},
	{"cheese", CategoryDairyEggs},
	{"butter", CategoryDairyEggs},
	{"yogurt", CategoryDairyEggs},
	{"yoghurt", CategoryDairyEggs},
	{"cream", CategoryDairyEggs},
	{"egg", CategoryDairyEggs},

	// 烘焙
	{"bread", CategoryBakery},
	{"baguette", CategoryBakery},
	{"bagel", CategoryBakery},
	{"bun", CategoryBakery},
	{"croissant", CategoryBakery},
	{"tortilla", CategoryBakery},
	{"pita", CategoryBakery},

	// 蔬果
	{"apple", CategoryProduce},
	{"banana", CategoryProduce},
	{"orange", CategoryProduce},
	{"lemon", CategoryProduce},
	{"lime", CategoryProduce},
	{"berry", CategoryProduce},
	{"berries", CategoryProduce},
	{"grape", CategoryProduce},
	{"melon", CategoryProduce},
	{"avocado", CategoryProduce},
	{"tomato", CategoryProduce},
	{"potato", CategoryProduce},
	{"onion", CategoryProduce},
	{"garlic", CategoryProduce},
	{"ginger", CategoryProduce},
	{"carrot", CategoryProduce},
	{"celery", CategoryProduce},
	{"lettuce", CategoryProduce},
	{"spinach", CategoryProduce},
	{"kale", CategoryProduce},
	{"broccoli", CategoryProduce},
	{"cabbage", CategoryProduce},
	{"cauliflower", CategoryProduce},
	{"cucumber", CategoryProduce},
	{"zucchini", CategoryProduce},
	{"mushroom", CategoryProduce},
	{"corn", CategoryProduce},
	{"cilantro", CategoryProduce},
	{"parsley", CategoryProduce},
	{"basil", CategoryProduce},
	{"scallion", CategoryProduce},
	{"spring onion", CategoryProduce},

	// 乾貨
	{"flour", CategoryPantry},
	{"sugar", CategoryPantry},
	{"rice", CategoryPantry},
	{"pasta", CategoryPantry},
	{"noodle", CategoryPantry},
	{"spaghetti", CategoryPantry},
	{"oat", CategoryPantry},
	{"cereal", CategoryPantry},
	{"bean", CategoryPantry},
	{"lentil", CategoryPantry},
	{"chickpea", CategoryPantry},
	{"quinoa", CategoryPantry},
	{"oil", CategoryPantry},
	{"honey", CategoryPantry},
	{"syrup", CategoryPantry},
	{"nut", CategoryPantry},
	{"almond", CategoryPantry},
	{"peanut", CategoryPantry},
	{"walnut", CategoryPantry},
	{"baking powder", CategoryPantry},
	{"baking soda", CategoryPantry},
	{"yeast", CategoryPantry},
	{"cocoa", CategoryPantry},
	{"chocolate", CategoryPantry},
	{"vanilla", CategoryPantry},
}

// Categorize 將標準名稱對應到購物分類
// 全函數：任何輸入都會得到一個分類，查無規則時回傳 Other
func Categorize(canonicalName string) ShoppingCategory {
	name := strings.ToLower(strings.TrimSpace(canonicalName))
	if name == "" {
		return CategoryOther
	}

	for _, rule := range categoryRules {
		if strings.Contains(name, rule.keyword) {
			return rule.category
		}
	}
	return CategoryOther
}
