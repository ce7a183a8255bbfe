package planner

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"food-suggester/internal/choice"
	"food-suggester/internal/database"
	"food-suggester/internal/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPlanner(t *testing.T, catalog ...string) *Planner {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "food.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	p := NewPlanner(db.SQL, recipe.NewRepository(db.SQL), choice.NewRepository(db.SQL), zap.NewNop())
	for _, name := range catalog {
		_, err := p.AddRecipe(context.Background(), name)
		require.NoError(t, err)
	}
	return p
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func names(items []Suggestion) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, s.Name)
	}
	return out
}

func TestRecentlyChosen(t *testing.T) {
	target := date("2024-03-10")

	t.Run("NeverChosen", func(t *testing.T) {
		assert.False(t, RecentlyChosen(time.Time{}, false, target))
	})

	for diff := 0; diff <= 3; diff++ {
		last := target.AddDate(0, 0, -diff)
		assert.True(t, RecentlyChosen(last, true, target), "diff %d should be recent", diff)
	}
	for _, diff := range []int{4, 5, 30} {
		last := target.AddDate(0, 0, -diff)
		assert.False(t, RecentlyChosen(last, true, target), "diff %d should not be recent", diff)
	}

	t.Run("LastAfterTarget", func(t *testing.T) {
		assert.True(t, RecentlyChosen(target.AddDate(0, 0, 10), true, target))
	})
}

func TestWasRecentlyChosen(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t, "Oatmeal")

	recent, err := p.WasRecentlyChosen(ctx, "Oatmeal", date("2024-03-10"))
	require.NoError(t, err)
	assert.False(t, recent)

	_, err = p.Finalize(ctx, Selection{Number: 1, Slot: choice.Morning, Date: date("2024-03-10")})
	require.NoError(t, err)

	for _, tt := range []struct {
		day  string
		want bool
	}{
		{"2024-03-10", true},
		{"2024-03-13", true},
		{"2024-03-14", false},
		{"2024-03-01", true},
	} {
		recent, err := p.WasRecentlyChosen(ctx, "Oatmeal", date(tt.day))
		require.NoError(t, err)
		assert.Equal(t, tt.want, recent, tt.day)
	}
}

func TestSuggestFor(t *testing.T) {
	ctx := context.Background()
	today := date("2024-03-10")

	t.Run("EmptyLog", func(t *testing.T) {
		p := newTestPlanner(t, "Oatmeal", "Salad", "Soup")

		got, err := p.SuggestFor(ctx, today)
		require.NoError(t, err)
		assert.Empty(t, got.ChosenToday)
		assert.Equal(t, []Suggestion{
			{Number: 1, Position: 1, Name: "Oatmeal"},
			{Number: 2, Position: 2, Name: "Salad"},
			{Number: 3, Position: 3, Name: "Soup"},
		}, got.Items)
	})

	t.Run("FinalizedRecipeIsExcludedAndListRenumbered", func(t *testing.T) {
		p := newTestPlanner(t, "Oatmeal", "Salad", "Soup")

		res, err := p.Finalize(ctx, Selection{Number: 1, Slot: choice.Morning, Date: today})
		require.NoError(t, err)
		assert.Equal(t, "Oatmeal", res.RecipeName)

		got, err := p.SuggestFor(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, []string{"Oatmeal"}, got.ChosenToday)
		assert.Equal(t, []Suggestion{
			{Number: 1, Position: 2, Name: "Salad"},
			{Number: 2, Position: 3, Name: "Soup"},
		}, got.Items)
	})

	t.Run("WindowExpires", func(t *testing.T) {
		p := newTestPlanner(t, "Oatmeal", "Salad")
		_, err := p.Finalize(ctx, Selection{Number: 2, Slot: choice.Evening, Date: today})
		require.NoError(t, err)

		got, err := p.SuggestFor(ctx, today.AddDate(0, 0, 3))
		require.NoError(t, err)
		assert.Equal(t, []string{"Oatmeal"}, names(got.Items))
		assert.Empty(t, got.ChosenToday)

		got, err = p.SuggestFor(ctx, today.AddDate(0, 0, 4))
		require.NoError(t, err)
		assert.Equal(t, []string{"Oatmeal", "Salad"}, names(got.Items))
	})

	t.Run("FutureChoiceExcludes", func(t *testing.T) {
		p := newTestPlanner(t, "Oatmeal", "Salad")
		_, err := p.Finalize(ctx, Selection{Number: 1, Slot: choice.Morning, Date: today.AddDate(0, 0, 20)})
		require.NoError(t, err)

		got, err := p.SuggestFor(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, []string{"Salad"}, names(got.Items))
	})

	t.Run("DuplicateCatalogNames", func(t *testing.T) {
		p := newTestPlanner(t, "Soup", "Salad", "Soup")

		got, err := p.SuggestFor(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, []string{"Soup", "Salad", "Soup"}, names(got.Items))
	})

	t.Run("ChosenTodayIsUnique", func(t *testing.T) {
		p := newTestPlanner(t, "Soup")
		for _, slot := range []choice.Slot{choice.Morning, choice.Evening, choice.Evening} {
			_, err := p.Finalize(ctx, Selection{Number: 1, Slot: slot, Date: today})
			require.NoError(t, err)
		}

		got, err := p.SuggestFor(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, []string{"Soup"}, got.ChosenToday)
		assert.Empty(t, got.Items)
	})

	t.Run("UnreadableChoiceDateKeepsRecipe", func(t *testing.T) {
		p := newTestPlanner(t, "Oatmeal", "Soup")
		_, err := p.db.ExecContext(ctx,
			`INSERT INTO chosen_recipes (recipe_name, chosen_date, chosen_time) VALUES ('Soup', 'not-a-date', 'Morning')`)
		require.NoError(t, err)

		_, err = p.WasRecentlyChosen(ctx, "Soup", today)
		require.Error(t, err)

		got, err := p.SuggestFor(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, []string{"Oatmeal", "Soup"}, names(got.Items))
	})
}

func TestFinalize(t *testing.T) {
	ctx := context.Background()
	today := date("2024-03-10")

	t.Run("OutOfRange", func(t *testing.T) {
		p := newTestPlanner(t, "Oatmeal", "Salad", "Soup")

		for _, n := range []int{-1, 0, 4} {
			_, err := p.Finalize(ctx, Selection{Number: n, Slot: choice.Morning, Date: today})
			assert.ErrorIs(t, err, ErrInvalidSelection, "number %d", n)
		}

		all, err := p.ListChoices(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("InvalidSlot", func(t *testing.T) {
		p := newTestPlanner(t, "Oatmeal")

		_, err := p.Finalize(ctx, Selection{Number: 1, Slot: "Noon", Date: today})
		assert.ErrorIs(t, err, choice.ErrInvalidSlot)
	})

	t.Run("AddsExactlyOneSlotEntry", func(t *testing.T) {
		p := newTestPlanner(t, "Oatmeal", "Salad")

		before, err := p.ChoicesForSlot(ctx, today, choice.Morning)
		require.NoError(t, err)

		res, err := p.Finalize(ctx, Selection{Number: 2, Slot: choice.Morning, Date: today})
		require.NoError(t, err)
		assert.Equal(t, Finalized{RecipeName: "Salad", Slot: choice.Morning, Date: today}, res)

		after, err := p.ChoicesForSlot(ctx, today, choice.Morning)
		require.NoError(t, err)
		assert.Len(t, after, len(before)+1)
		assert.Equal(t, "Salad", after[len(after)-1])

		evening, err := p.ChoicesForSlot(ctx, today, choice.Evening)
		require.NoError(t, err)
		assert.Empty(t, evening)
	})

	t.Run("ExpectedNameMatches", func(t *testing.T) {
		p := newTestPlanner(t, "Oatmeal", "Salad")

		res, err := p.Finalize(ctx, Selection{Number: 2, Slot: choice.Evening, Date: today, ExpectedName: "Salad"})
		require.NoError(t, err)
		assert.Equal(t, "Salad", res.RecipeName)
	})

	t.Run("ExpectedNameStale", func(t *testing.T) {
		p := newTestPlanner(t, "Oatmeal", "Salad")

		_, err := p.Finalize(ctx, Selection{Number: 1, Slot: choice.Evening, Date: today, ExpectedName: "Salad"})
		assert.ErrorIs(t, err, ErrStaleSelection)

		all, err := p.ListChoices(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestDayPlan(t *testing.T) {
	ctx := context.Background()
	today := date("2024-03-10")
	p := newTestPlanner(t, "Oatmeal", "Salad", "Soup")

	for _, sel := range []Selection{
		{Number: 1, Slot: choice.Morning, Date: today},
		{Number: 3, Slot: choice.Evening, Date: today},
		{Number: 2, Slot: choice.Evening, Date: today},
		{Number: 2, Slot: choice.Morning, Date: today.AddDate(0, 0, 1)},
	} {
		_, err := p.Finalize(ctx, sel)
		require.NoError(t, err)
	}

	plan, err := p.DayPlan(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, []string{"Oatmeal"}, plan.Morning)
	assert.Equal(t, []string{"Soup", "Salad"}, plan.Evening)
}

func TestAddRecipe(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	rec, err := p.AddRecipe(ctx, "  Lentil stew ")
	require.NoError(t, err)
	assert.Equal(t, "Lentil stew", rec.Name)

	_, err = p.AddRecipe(ctx, "Lentil stew")
	require.NoError(t, err, "duplicates pass through")

	_, err = p.AddRecipe(ctx, "   ")
	assert.ErrorIs(t, err, ErrDuplicateOrInvalid)

	listed, err := p.ListRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, 2, listed[1].Position)

	count, err := p.CountRecipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
