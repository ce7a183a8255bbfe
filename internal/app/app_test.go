package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"food-suggester/internal/choice"
	"food-suggester/internal/config"
	"food-suggester/internal/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClipper map[string]string

func (f fakeClipper) RecipeName(ctx context.Context, url string) (string, error) {
	name, ok := f[url]
	if !ok {
		return "", assert.AnError
	}
	return name, nil
}

func newTestApp(t *testing.T, catalog ...string) *App {
	t.Helper()

	cfg := &config.Config{
		DatabasePath: filepath.Join(t.TempDir(), "data", "food.db"),
		FetchTimeout: time.Second,
	}
	a, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	a.clipper = fakeClipper{}
	for _, name := range catalog {
		_, err := a.Planner.AddRecipe(context.Background(), name)
		require.NoError(t, err)
	}
	return a
}

var today = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

func TestPrintSuggestions(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, "Oatmeal", "Salad")

	var out bytes.Buffer
	require.NoError(t, a.PrintSuggestions(ctx, &out, today))
	assert.Equal(t, "Chosen foods for 2024-03-10:\n  Nothing chosen yet.\n\nRecipe suggestions for today:\n  1. Oatmeal\n  2. Salad\n", out.String())

	out.Reset()
	require.NoError(t, a.Finalize(ctx, &out, planner.Selection{Number: 1, Slot: choice.Morning, Date: today}))
	assert.Equal(t, "'Oatmeal' finalized for morning!\n", out.String())

	out.Reset()
	require.NoError(t, a.PrintSuggestions(ctx, &out, today))
	assert.Equal(t, "Chosen foods for 2024-03-10:\n  - Oatmeal\n\nRecipe suggestions for today:\n  2. Salad\n", out.String())
}

func TestPrintDayPlanAndSlot(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, "Oatmeal", "Soup")
	require.NoError(t, a.Finalize(ctx, &bytes.Buffer{}, planner.Selection{Number: 2, Slot: choice.Evening, Date: today}))

	var out bytes.Buffer
	require.NoError(t, a.PrintDayPlan(ctx, &out, today))
	assert.Equal(t, "Morning Foods (2024-03-10):\n  No morning foods selected.\n\nEvening Foods (2024-03-10):\n  - Soup\n", out.String())

	out.Reset()
	require.NoError(t, a.PrintSlot(ctx, &out, today, choice.Morning))
	assert.Equal(t, "Morning Foods (2024-03-10):\n  No morning foods selected.\n", out.String())
}

func TestPrintRecipesAndChoices(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		a := newTestApp(t)
		var out bytes.Buffer
		require.NoError(t, a.PrintRecipes(ctx, &out))
		assert.Equal(t, "No recipes yet.\n", out.String())
	})

	t.Run("Listed", func(t *testing.T) {
		a := newTestApp(t, "Oatmeal", "Soup")
		require.NoError(t, a.Finalize(ctx, &bytes.Buffer{}, planner.Selection{Number: 2, Slot: choice.Evening, Date: today}))

		var out bytes.Buffer
		require.NoError(t, a.PrintRecipes(ctx, &out))
		assert.Equal(t, "1. Oatmeal\n2. Soup\n", out.String())

		out.Reset()
		require.NoError(t, a.PrintChoices(ctx, &out))
		assert.Contains(t, out.String(), "ID  RECIPE  DATE        TIME")
		assert.Contains(t, out.String(), "1   Soup    2024-03-10  Evening")
	})
}

func TestAddRecipe(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	a.clipper = fakeClipper{"https://example.test/curry": "Green Curry"}

	var out bytes.Buffer
	require.NoError(t, a.AddRecipe(ctx, &out, "  Lentil stew "))
	assert.Equal(t, "Recipe 'Lentil stew' added successfully!\n", out.String())

	out.Reset()
	require.NoError(t, a.AddRecipe(ctx, &out, "https://example.test/curry"))
	assert.Equal(t, "Recipe 'Green Curry' added successfully!\n", out.String())

	err := a.AddRecipe(ctx, &out, "https://example.test/missing")
	assert.ErrorIs(t, err, assert.AnError)

	err = a.AddRecipe(ctx, &out, "   ")
	assert.ErrorIs(t, err, planner.ErrDuplicateOrInvalid)
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)
	h := a.Health(context.Background())
	assert.True(t, h.Healthy())
	assert.Equal(t, "ok", h.Database)
}
