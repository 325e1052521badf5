package model

import (
	"fmt"
	"strings"
)

// Categories is the closed set of top-level expense categories. The
// classifier may never introduce a new top-level category; anything outside
// this list is rejected at the filtering gate.
var Categories = []string{
	"Food",
	"Transport",
	"Utilities",
	"Entertainment",
	"Shopping",
	"Health",
	"Other",
}

// MaxSubcategories caps the subcategory list size per parent category.
const MaxSubcategories = 8

// IsAllowedCategory reports whether name is one of the fixed top-level
// categories.
func IsAllowedCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// SubcategoryMap holds the approved subcategories per top-level category.
// It grows only through Approve; classifier proposals are held for explicit
// user approval first.
type SubcategoryMap map[string][]string

// Approve adds a subcategory under the given parent category.
func (m SubcategoryMap) Approve(category, subcategory string) error {
	if !IsAllowedCategory(category) {
		return fmt.Errorf("unknown category %q", category)
	}
	subcategory = strings.TrimSpace(subcategory)
	if subcategory == "" {
		return fmt.Errorf("subcategory name is required")
	}
	existing := m[category]
	for _, s := range existing {
		if strings.EqualFold(s, subcategory) {
			return fmt.Errorf("subcategory %q already exists under %s", subcategory, category)
		}
	}
	if len(existing) >= MaxSubcategories {
		return fmt.Errorf("category %s already has %d subcategories (max %d)", category, len(existing), MaxSubcategories)
	}
	m[category] = append(existing, subcategory)
	return nil
}

// Contains reports whether subcategory is approved under category.
func (m SubcategoryMap) Contains(category, subcategory string) bool {
	for _, s := range m[category] {
		if strings.EqualFold(s, subcategory) {
			return true
		}
	}
	return false
}
