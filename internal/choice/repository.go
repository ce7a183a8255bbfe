package choice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	db "food-suggester/internal/choice/db"
	"food-suggester/internal/shared"
)

// Repository is the append-only choice log.
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

// Log appends a choice. Several choices may share a date and slot.
func (r *Repository) Log(ctx context.Context, recipeName string, date time.Time, slot Slot) (Choice, error) {
	if !slot.Valid() {
		return Choice{}, fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}

	row, err := r.queries.InsertChosenRecipe(ctx, db.InsertChosenRecipeParams{
		RecipeName: recipeName,
		ChosenDate: shared.FormatDate(date),
		ChosenTime: string(slot),
	})
	if err != nil {
		return Choice{}, fmt.Errorf("failed to log choice of %q: %w", recipeName, err)
	}
	return toChoice(row)
}

// LastChosenDate returns the latest date recipeName was chosen on.
// found is false when it was never chosen.
func (r *Repository) LastChosenDate(ctx context.Context, recipeName string) (last time.Time, found bool, err error) {
	raw, err := r.queries.GetLastChosenDate(ctx, recipeName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to get last chosen date of %q: %w", recipeName, err)
	}

	last, err = shared.ParseDate(raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("corrupt chosen_date for %q: %w", recipeName, err)
	}
	return last, true, nil
}

// NamesForDate returns recipe names chosen on date in any slot, in storage order.
func (r *Repository) NamesForDate(ctx context.Context, date time.Time) ([]string, error) {
	names, err := r.queries.ListChosenNamesByDate(ctx, shared.FormatDate(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list choices for %s: %w", shared.FormatDate(date), err)
	}
	return names, nil
}

// NamesForSlot returns recipe names chosen for exactly (date, slot), in storage order.
func (r *Repository) NamesForSlot(ctx context.Context, date time.Time, slot Slot) ([]string, error) {
	if !slot.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}

	names, err := r.queries.ListChosenNamesBySlot(ctx, db.ListChosenNamesBySlotParams{
		ChosenDate: shared.FormatDate(date),
		ChosenTime: string(slot),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s choices for %s: %w", slot, shared.FormatDate(date), err)
	}
	return names, nil
}

// List returns every logged choice in storage order.
func (r *Repository) List(ctx context.Context) ([]Choice, error) {
	rows, err := r.queries.ListChosenRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list choices: %w", err)
	}

	choices := make([]Choice, 0, len(rows))
	for _, row := range rows {
		c, err := toChoice(row)
		if err != nil {
			return nil, err
		}
		choices = append(choices, c)
	}
	return choices, nil
}

func toChoice(row db.ChosenRecipe) (Choice, error) {
	date, err := shared.ParseDate(row.ChosenDate)
	if err != nil {
		return Choice{}, fmt.Errorf("corrupt chosen_date in row %d: %w", row.ID, err)
	}
	return Choice{
		ID:         row.ID,
		RecipeName: row.RecipeName,
		ChosenDate: date,
		ChosenTime: Slot(row.ChosenTime),
	}, nil
}
