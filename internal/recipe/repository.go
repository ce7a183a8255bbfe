package recipe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	db "food-suggester/internal/recipe/db"
)

// Repository is a database-backed repository for the recipe catalog.
// Catalog order is insertion order.
type Repository struct {
	queries *db.Queries
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{queries: db.New(d)}
}

// WithTx returns a Repository bound to tx.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{queries: r.queries.WithTx(tx)}
}

// Add appends a recipe to the catalog. No uniqueness check is made here;
// whatever the store accepts is stored.
func (r *Repository) Add(ctx context.Context, name string) (Recipe, error) {
	row, err := r.queries.InsertRecipe(ctx, name)
	if err != nil {
		return Recipe{}, fmt.Errorf("failed to insert recipe %q: %w", name, err)
	}
	return Recipe{ID: row.ID, Name: row.RecipeName}, nil
}

// List returns the whole catalog in insertion order.
func (r *Repository) List(ctx context.Context) ([]Recipe, error) {
	rows, err := r.queries.ListRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	recipes := make([]Recipe, 0, len(rows))
	for _, row := range rows {
		recipes = append(recipes, Recipe{ID: row.ID, Name: row.RecipeName})
	}
	return recipes, nil
}

// AtPosition resolves a 1-based catalog position to its recipe.
func (r *Repository) AtPosition(ctx context.Context, position int) (Recipe, error) {
	if position < 1 {
		return Recipe{}, ErrNotFound
	}

	row, err := r.queries.GetRecipeAtPosition(ctx, int64(position-1))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Recipe{}, ErrNotFound
		}
		return Recipe{}, fmt.Errorf("failed to get recipe at position %d: %w", position, err)
	}
	return Recipe{ID: row.ID, Name: row.RecipeName}, nil
}

// Count returns the number of recipes in the catalog.
func (r *Repository) Count(ctx context.Context) (int, error) {
	count, err := r.queries.CountRecipes(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return int(count), nil
}
