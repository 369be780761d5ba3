// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package catalog

// Category ids used by the association tables and the seed catalog.
const (
	CategoryStaplesFlours      = "staples_flours"
	CategoryPantrySpicesSauces = "pantry_spices_sauces"
	CategoryDairy              = "dairy"
	CategoryFreshProduce       = "fresh_produce"
	CategorySnacks             = "snacks"
	CategoryBeverages          = "beverages"
	CategorySweetsChocolates   = "sweets_chocolates"
	CategoryBakeryBiscuits     = "bakery_biscuits"
	CategoryMeatEggs           = "meat_eggs"
	CategoryHomeCleaning       = "home_cleaning"
	CategoryPersonalHygiene    = "personal_hygiene"
	CategoryHealthWellness     = "health_wellness"
	CategoryBabyCare           = "baby_care"
	CategoryPetCare            = "pet_care"
	CategoryPujaEssentials     = "puja_essentials"
)

// categoryAdjacency maps a category in the cart to categories that usually
// complete it.
var categoryAdjacency = map[string][]string{
	CategoryStaplesFlours:    {CategoryPantrySpicesSauces, CategoryDairy, CategoryFreshProduce},
	CategorySnacks:           {CategoryBeverages, CategorySweetsChocolates},
	CategoryBeverages:        {CategorySnacks, CategoryBakeryBiscuits},
	CategoryDairy:            {CategoryBakeryBiscuits, CategoryMeatEggs, CategoryFreshProduce},
	CategoryHomeCleaning:     {CategoryPersonalHygiene, CategoryPantrySpicesSauces},
	CategoryMeatEggs:         {CategoryPantrySpicesSauces, CategoryStaplesFlours},
	CategoryBakeryBiscuits:   {CategoryDairy, CategoryBeverages},
	CategoryFreshProduce:     {CategoryPantrySpicesSauces, CategoryDairy},
	CategoryPersonalHygiene:  {CategoryHomeCleaning, CategoryHealthWellness},
	CategoryBabyCare:         {CategoryPersonalHygiene, CategoryHomeCleaning},
	CategoryPetCare:          {CategoryHomeCleaning},
	CategoryPujaEssentials:   {CategoryFreshProduce, CategorySweetsChocolates, CategoryDairy},
	CategorySweetsChocolates: {CategorySweetsChocolates, CategorySnacks},
}

// contextCategories maps a strong context to the aisles worth suggesting from.
var contextCategories = map[string][]string{
	"party":     {CategoryBeverages, CategorySnacks, CategorySweetsChocolates, CategoryHomeCleaning},
	"breakfast": {CategoryDairy, CategoryBakeryBiscuits, CategoryBeverages, CategoryMeatEggs, CategoryFreshProduce},
	"biryani":   {CategoryMeatEggs, CategoryDairy, CategoryPantrySpicesSauces, CategoryBeverages},
	"cleaning":  {CategoryHomeCleaning, CategoryPersonalHygiene},
	"puja":      {CategoryPujaEssentials, CategoryFreshProduce, CategoryDairy},
	"sick":      {CategoryHealthWellness, CategoryBeverages, CategoryFreshProduce},
	"movie":     {CategorySnacks, CategoryBeverages, CategorySweetsChocolates},
	"italian":   {CategoryDairy, CategoryPantrySpicesSauces, CategoryBeverages},
	"gym":       {CategoryHealthWellness, CategoryMeatEggs, CategoryFreshProduce},
	"latenight": {CategorySnacks, CategoryBeverages, CategorySweetsChocolates},
	"baby":      {CategoryBabyCare, CategoryPersonalHygiene},
}

// AdjacentCategories returns the categories associated with a cart category.
func AdjacentCategories(categoryID string) []string {
	return cloneStrings(categoryAdjacency[categoryID])
}

// CategoriesForContext returns the aisles mapped to a context id, or nil
// when the context has no mapping.
func CategoriesForContext(contextID string) []string {
	return cloneStrings(contextCategories[contextID])
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
