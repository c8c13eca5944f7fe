// Package model defines the core data types shared across the application.
package model

// Category is one of the fixed broad product categories assigned to every
// purchase line. Unknown inputs parse to CategoryOther rather than failing,
// so a bad upstream label can never break an aggregation pass.
type Category string

// Broad product categories.
const (
	CategoryMeatFish     Category = "Meat & Fish"
	CategoryFreshProduce Category = "Fresh Produce"
	CategoryDairyEggs    Category = "Dairy & Eggs"
	CategoryReadyMeals   Category = "Ready Meals"
	CategoryBakery       Category = "Bakery"
	CategoryPantry       Category = "Pantry"
	CategoryFrozen       Category = "Frozen"
	CategorySnacksSweets Category = "Snacks & Sweets"
	CategoryDrinksSoft   Category = "Drinks (Soft/Soda)"
	CategoryDrinksWater  Category = "Drinks (Water)"
	CategoryAlcohol      Category = "Alcohol"
	CategoryBabyKids     Category = "Baby & Kids"
	CategoryHousehold    Category = "Household"
	CategoryPersonalCare Category = "Personal Care"
	CategoryPetSupplies  Category = "Pet Supplies"
	CategoryTobacco      Category = "Tobacco"
	CategoryOther        Category = "Other"
)

// Categories lists every known category, in display order.
var Categories = []Category{
	CategoryMeatFish,
	CategoryFreshProduce,
	CategoryDairyEggs,
	CategoryReadyMeals,
	CategoryBakery,
	CategoryPantry,
	CategoryFrozen,
	CategorySnacksSweets,
	CategoryDrinksSoft,
	CategoryDrinksWater,
	CategoryAlcohol,
	CategoryBabyKids,
	CategoryHousehold,
	CategoryPersonalCare,
	CategoryPetSupplies,
	CategoryTobacco,
	CategoryOther,
}

var categoryNames = func() map[string]Category {
	m := make(map[string]Category, len(Categories))
	for _, c := range Categories {
		m[string(c)] = c
	}
	return m
}()

// ParseCategory maps a category label to its Category value.
// Unrecognized labels map to CategoryOther.
func ParseCategory(s string) Category {
	if c, ok := categoryNames[s]; ok {
		return c
	}
	return CategoryOther
}

// IsFood reports whether the category covers edible products. Health trends
// and produce ratios only consider food categories.
func (c Category) IsFood() bool {
	switch c {
	case CategoryMeatFish, CategoryFreshProduce, CategoryDairyEggs,
		CategoryReadyMeals, CategoryBakery, CategoryPantry, CategoryFrozen,
		CategorySnacksSweets, CategoryDrinksSoft, CategoryDrinksWater,
		CategoryAlcohol, CategoryBabyKids:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	return string(c)
}
