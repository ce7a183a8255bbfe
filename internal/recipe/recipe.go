package recipe

import "errors"

// ErrNotFound is returned when no recipe sits at the requested position.
var ErrNotFound = errors.New("recipe not found")

// Recipe is one entry of the catalog.
type Recipe struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Numbered pairs a recipe with its 1-based position in catalog order.
type Numbered struct {
	Position int
	Recipe
}

// Number assigns catalog positions to recipes already in catalog order.
func Number(recipes []Recipe) []Numbered {
	out := make([]Numbered, len(recipes))
	for i, r := range recipes {
		out[i] = Numbered{Position: i + 1, Recipe: r}
	}
	return out
}
