package planner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"food-suggester/internal/choice"
	"food-suggester/internal/recipe"
	"food-suggester/internal/shared"

	"go.uber.org/zap"
)

var (
	// ErrInvalidSelection means the recipe number does not exist in the catalog.
	ErrInvalidSelection = errors.New("invalid recipe choice")
	// ErrStaleSelection means the number now points at a different recipe than
	// the one the user was shown.
	ErrStaleSelection = errors.New("recipe list changed, please choose again")
	// ErrDuplicateOrInvalid means the store refused a new recipe.
	ErrDuplicateOrInvalid = errors.New("recipe rejected")
)

// Suggestion is one recipe offered for a date.
type Suggestion struct {
	// Number is the 1-based index within this listing.
	Number int
	// Position is the 1-based catalog position, the number Finalize resolves.
	Position int
	Name     string
}

// Suggestions is the result of SuggestFor.
type Suggestions struct {
	Date        time.Time
	ChosenToday []string
	Items       []Suggestion
}

// DayPlan is the Morning/Evening breakdown of one date.
type DayPlan struct {
	Date    time.Time
	Morning []string
	Evening []string
}

// Selection is a finalize request.
type Selection struct {
	Number int
	Slot   choice.Slot
	Date   time.Time
	// ExpectedName, when set, must match the recipe Number resolves to.
	ExpectedName string
}

// Finalized describes a successfully logged choice.
type Finalized struct {
	RecipeName string
	Slot       choice.Slot
	Date       time.Time
}

// Planner composes the recipe catalog and the choice log.
type Planner struct {
	db      *sql.DB
	recipes *recipe.Repository
	choices *choice.Repository
	log     *zap.Logger
}

// NewPlanner creates a new Planner instance. db must be the handle both
// repositories were built from; it is used to run Finalize atomically.
func NewPlanner(db *sql.DB, recipes *recipe.Repository, choices *choice.Repository, log *zap.Logger) *Planner {
	return &Planner{
		db:      db,
		recipes: recipes,
		choices: choices,
		log:     log,
	}
}

// SuggestFor lists the recipes chosen on date and the catalog recipes not
// chosen within the repetition window.
func (p *Planner) SuggestFor(ctx context.Context, date time.Time) (Suggestions, error) {
	date = shared.DateOf(date)
	result := Suggestions{Date: date}

	chosen, err := p.choices.NamesForDate(ctx, date)
	if err != nil {
		return result, err
	}
	result.ChosenToday = unique(chosen)

	catalog, err := p.recipes.List(ctx)
	if err != nil {
		return result, err
	}

	for i, rec := range catalog {
		recent, err := p.WasRecentlyChosen(ctx, rec.Name, date)
		if err != nil {
			// treat as not recent and keep going
			p.log.Warn("repetition check failed",
				zap.String("recipe", rec.Name),
				zap.Error(err),
			)
		}
		if recent {
			continue
		}
		result.Items = append(result.Items, Suggestion{
			Number:   len(result.Items) + 1,
			Position: i + 1,
			Name:     rec.Name,
		})
	}

	return result, nil
}

// ChoicesForSlot returns the recipe names logged for exactly (date, slot).
func (p *Planner) ChoicesForSlot(ctx context.Context, date time.Time, slot choice.Slot) ([]string, error) {
	return p.choices.NamesForSlot(ctx, shared.DateOf(date), slot)
}

// DayPlan returns the Morning and Evening choices of date.
func (p *Planner) DayPlan(ctx context.Context, date time.Time) (DayPlan, error) {
	date = shared.DateOf(date)
	plan := DayPlan{Date: date}

	morning, err := p.ChoicesForSlot(ctx, date, choice.Morning)
	if err != nil {
		return plan, err
	}
	evening, err := p.ChoicesForSlot(ctx, date, choice.Evening)
	if err != nil {
		return plan, err
	}

	plan.Morning = morning
	plan.Evening = evening
	return plan, nil
}

// Finalize resolves sel.Number against the current catalog order and logs the
// choice. Resolution and insert share one transaction.
func (p *Planner) Finalize(ctx context.Context, sel Selection) (Finalized, error) {
	if !sel.Slot.Valid() {
		return Finalized{}, fmt.Errorf("%w: %q", choice.ErrInvalidSlot, sel.Slot)
	}
	date := shared.DateOf(sel.Date)

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return Finalized{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rec, err := p.recipes.WithTx(tx).AtPosition(ctx, sel.Number)
	if err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			return Finalized{}, fmt.Errorf("%w: %d", ErrInvalidSelection, sel.Number)
		}
		return Finalized{}, err
	}

	if sel.ExpectedName != "" && sel.ExpectedName != rec.Name {
		return Finalized{}, fmt.Errorf("%w: #%d is now %q, expected %q",
			ErrStaleSelection, sel.Number, rec.Name, sel.ExpectedName)
	}

	if _, err := p.choices.WithTx(tx).Log(ctx, rec.Name, date, sel.Slot); err != nil {
		return Finalized{}, err
	}

	if err := tx.Commit(); err != nil {
		return Finalized{}, fmt.Errorf("failed to commit choice: %w", err)
	}

	p.log.Info("recipe finalized",
		zap.String("recipe", rec.Name),
		zap.String("slot", string(sel.Slot)),
		zap.String("date", shared.FormatDate(date)),
	)
	return Finalized{RecipeName: rec.Name, Slot: sel.Slot, Date: date}, nil
}

// AddRecipe appends name to the catalog. Duplicates are accepted; only the
// store can refuse a name.
func (p *Planner) AddRecipe(ctx context.Context, name string) (recipe.Recipe, error) {
	rec, err := p.recipes.Add(ctx, strings.TrimSpace(name))
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("%w: %w", ErrDuplicateOrInvalid, err)
	}

	p.log.Info("recipe added", zap.String("recipe", rec.Name), zap.Int64("id", rec.ID))
	return rec, nil
}

// ListRecipes returns the catalog numbered by position.
func (p *Planner) ListRecipes(ctx context.Context) ([]recipe.Numbered, error) {
	recipes, err := p.recipes.List(ctx)
	if err != nil {
		return nil, err
	}
	return recipe.Number(recipes), nil
}

// CountRecipes returns the size of the catalog.
func (p *Planner) CountRecipes(ctx context.Context) (int, error) {
	return p.recipes.Count(ctx)
}

// ListChoices returns every logged choice.
func (p *Planner) ListChoices(ctx context.Context) ([]choice.Choice, error) {
	return p.choices.List(ctx)
}

func unique(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
