package domain

import "github.com/google/uuid"

// Category is a user-defined classification node, typed income or expense at
// creation. The hierarchy is capped at two levels: a category owns a flat set
// of subcategories and subcategories never nest further.
type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Type          string        `json:"type"` // "income" or "expense", immutable
	Subcategories []Subcategory `json:"subcategories"`
}

type Subcategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // always equals the parent category type
}

// DefaultCategories returns the starter category set every new account gets.
func DefaultCategories() []Category {
	return []Category{
		{
			ID:   uuid.NewString(),
			Name: "Salary",
			Type: TypeIncome,
		},
		{
			ID:   uuid.NewString(),
			Name: "Other Income",
			Type: TypeIncome,
		},
		{
			ID:   uuid.NewString(),
			Name: "Groceries",
			Type: TypeExpense,
		},
		{
			ID:   uuid.NewString(),
			Name: "Bills",
			Type: TypeExpense,
			Subcategories: []Subcategory{
				{ID: uuid.NewString(), Name: "Rent", Type: TypeExpense},
				{ID: uuid.NewString(), Name: "Utilities", Type: TypeExpense},
			},
		},
		{
			ID:   uuid.NewString(),
			Name: "Other Expenses",
			Type: TypeExpense,
		},
	}
}
