package store

import "lg/calorie-tracker-go/internal/models"

func food(name string, cal, protein, carbs, fat float64, category string) models.FoodItem {
	return models.FoodItem{
		Name:            name,
		Category:        category,
		CaloriesPer100g: cal,
		ProteinG:        protein,
		CarbsG:          carbs,
		FatG:            fat,
	}
}

// SampleFoods is the reference catalog seeded on first start. Values are per
// 100g.
var SampleFoods = []models.FoodItem{
	food("Apple", 52, 0.3, 14, 0.2, "Fruit"),
	food("Banana", 89, 1.1, 23, 0.3, "Fruit"),
	food("Orange", 47, 0.9, 12, 0.1, "Fruit"),
	food("Mango", 60, 0.8, 15, 0.4, "Fruit"),
	food("Grapes", 69, 0.7, 18, 0.2, "Fruit"),

	food("Broccoli", 34, 2.8, 7, 0.4, "Vegetable"),
	food("Potato", 77, 2, 17, 0.1, "Vegetable"),
	food("Carrot", 41, 0.9, 10, 0.2, "Vegetable"),
	food("Spinach", 23, 2.9, 3.6, 0.4, "Vegetable"),
	food("Tomato", 18, 0.9, 3.9, 0.2, "Vegetable"),

	food("Chicken Breast", 165, 31, 0, 3.6, "Protein"),
	food("Egg", 155, 13, 1.1, 11, "Protein"),
	food("Salmon", 208, 20, 0, 13, "Protein"),
	food("Tuna", 132, 28, 0, 1.3, "Protein"),
	food("Tofu", 76, 8, 1.9, 4.8, "Protein"),

	food("Brown Rice", 111, 2.6, 23, 0.9, "Grains"),
	food("Whole Wheat Bread", 265, 13, 51, 4.4, "Grains"),
	food("Oatmeal", 68, 2.4, 12, 1.4, "Grains"),
	food("Quinoa", 120, 4.4, 21, 1.9, "Grains"),
	food("Pasta", 131, 5, 25, 1.1, "Grains"),

	food("Milk", 42, 3.4, 5, 1, "Dairy"),
	food("Yogurt", 59, 10, 3.6, 0.4, "Dairy"),
	food("Cheese", 402, 25, 1.3, 33, "Dairy"),
	food("Greek Yogurt", 59, 10, 3.6, 0.4, "Dairy"),

	food("Almonds", 579, 21, 22, 50, "Nuts"),
	food("Peanuts", 567, 26, 16, 49, "Nuts"),
	food("Walnuts", 654, 15, 14, 65, "Nuts"),
	food("Chia Seeds", 486, 17, 42, 31, "Seeds"),
}
