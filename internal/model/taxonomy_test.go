package model

import (
	"fmt"
	"testing"
)

func TestIsAllowedCategory(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Food", true},
		{"Health", true},
		{"Other", true},
		{"Bogus", false},
		{"food", false}, // case-sensitive: the taxonomy is a closed set
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAllowedCategory(tt.name); got != tt.want {
				t.Errorf("IsAllowedCategory(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestSubcategoryMap_Approve(t *testing.T) {
	m := SubcategoryMap{}

	if err := m.Approve("Food", "Groceries"); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if !m.Contains("Food", "Groceries") {
		t.Error("expected Groceries under Food")
	}
	if !m.Contains("Food", "groceries") {
		t.Error("Contains should be case-insensitive")
	}

	if err := m.Approve("Food", "groceries"); err == nil {
		t.Error("expected duplicate rejection")
	}
	if err := m.Approve("Bogus", "Anything"); err == nil {
		t.Error("expected unknown category rejection")
	}
	if err := m.Approve("Food", "  "); err == nil {
		t.Error("expected empty name rejection")
	}
}

func TestSubcategoryMap_ApproveCap(t *testing.T) {
	m := SubcategoryMap{}
	for i := 0; i < MaxSubcategories; i++ {
		if err := m.Approve("Transport", fmt.Sprintf("Sub%d", i)); err != nil {
			t.Fatalf("Approve() error = %v", err)
		}
	}

	if err := m.Approve("Transport", "OneTooMany"); err == nil {
		t.Errorf("expected cap rejection after %d subcategories", MaxSubcategories)
	}
	if len(m["Transport"]) != MaxSubcategories {
		t.Errorf("got %d subcategories, want %d", len(m["Transport"]), MaxSubcategories)
	}
}
