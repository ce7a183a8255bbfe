package planner

import (
	"context"
	"time"

	"food-suggester/internal/shared"
)

// RepetitionWindowDays is how many days back a choice keeps a recipe out of
// the suggestions.
const RepetitionWindowDays = 3

// RecentlyChosen reports whether a recipe last chosen on last falls inside the
// repetition window of target. The difference is signed, so a last date after
// target is also treated as recent.
func RecentlyChosen(last time.Time, found bool, target time.Time) bool {
	if !found {
		return false
	}
	return shared.DaysBetween(last, target) <= RepetitionWindowDays
}

// WasRecentlyChosen looks up the most recent choice of recipeName and applies
// RecentlyChosen against date.
func (p *Planner) WasRecentlyChosen(ctx context.Context, recipeName string, date time.Time) (bool, error) {
	last, found, err := p.choices.LastChosenDate(ctx, recipeName)
	if err != nil {
		return false, err
	}
	return RecentlyChosen(last, found, date), nil
}
