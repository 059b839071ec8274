package models

import (
	"fmt"
	"strings"
)

// Category is a spending category label drawn from a closed vocabulary.
type Category string

// Spend categories
const (
	CategoryGroceries      Category = "Groceries"
	CategoryDining         Category = "Dining"
	CategoryTransportation Category = "Transportation"
	CategoryShopping       Category = "Shopping"
	CategoryUtilities      Category = "Utilities"
	CategoryHousing        Category = "Housing"
	CategoryHealthcare     Category = "Healthcare"
	CategoryEntertainment  Category = "Entertainment"
	CategoryTravel         Category = "Travel"
	CategorySubscriptions  Category = "Subscriptions"
	CategoryEducation      Category = "Education"
	CategoryPersonalCare   Category = "Personal Care"
	CategoryFees           Category = "Fees"
	CategoryCash           Category = "Cash"
	CategoryGifts          Category = "Gifts"
	CategoryInsurance      Category = "Insurance"
	CategoryTaxes          Category = "Taxes"
)

// Reserved categories
const (
	// CategoryIncome marks inflows; never counted as spend.
	CategoryIncome Category = "Income"
	// CategoryExclude marks internal movements of money; never counted in any aggregate.
	CategoryExclude Category = "EXCLUDE"
	// CategoryUncategorized is assigned when no rule or heuristic matches.
	CategoryUncategorized Category = "Uncategorized"
)

var vocabulary = []Category{
	CategoryGroceries,
	CategoryDining,
	CategoryTransportation,
	CategoryShopping,
	CategoryUtilities,
	CategoryHousing,
	CategoryHealthcare,
	CategoryEntertainment,
	CategoryTravel,
	CategorySubscriptions,
	CategoryEducation,
	CategoryPersonalCare,
	CategoryFees,
	CategoryCash,
	CategoryGifts,
	CategoryInsurance,
	CategoryTaxes,
	CategoryIncome,
	CategoryExclude,
	CategoryUncategorized,
}

var byLowerName = func() map[string]Category {
	m := make(map[string]Category, len(vocabulary))
	for _, c := range vocabulary {
		m[strings.ToLower(string(c))] = c
	}
	return m
}()

// AllCategories returns the full vocabulary, spend categories first.
func AllCategories() []Category {
	out := make([]Category, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// ParseCategory maps a label onto the vocabulary, ignoring case and surrounding spaces.
func ParseCategory(label string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(label))
	if c, ok := byLowerName[key]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown category '%s'", label)
}

// IsValid reports whether c belongs to the vocabulary.
func (c Category) IsValid() bool {
	v, ok := byLowerName[strings.ToLower(string(c))]
	return ok && v == c
}

// IsSpend reports whether amounts in this category count towards spending.
func (c Category) IsSpend() bool {
	return c != CategoryIncome && c != CategoryExclude
}

func (c Category) String() string {
	return string(c)
}
