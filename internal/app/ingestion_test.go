package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogNames(t *testing.T, a *App) []string {
	t.Helper()
	listed, err := a.Planner.ListRecipes(context.Background())
	require.NoError(t, err)
	var names []string
	for _, r := range listed {
		names = append(names, r.Name)
	}
	return names
}

func TestImportRecipes(t *testing.T) {
	ctx := context.Background()

	const file = `# weekday staples
Oatmeal

  Lentil stew
oatmeal
https://example.test/curry
https://example.test/missing
`

	t.Run("SkipsCommentsBlanksAndKnownNames", func(t *testing.T) {
		a := newTestApp(t, "Soup")
		a.clipper = fakeClipper{"https://example.test/curry": "Green Curry"}

		report, err := a.ImportRecipes(ctx, strings.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, ImportReport{Added: 3, Skipped: 1, Failed: 1, Total: 4}, report)
		assert.Equal(t, []string{"Soup", "Oatmeal", "Lentil stew", "Green Curry"}, catalogNames(t, a))
	})

	t.Run("SecondImportAddsNothing", func(t *testing.T) {
		a := newTestApp(t)
		a.clipper = fakeClipper{"https://example.test/curry": "Green Curry"}

		_, err := a.ImportRecipes(ctx, strings.NewReader(file))
		require.NoError(t, err)

		report, err := a.ImportRecipes(ctx, strings.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, ImportReport{Added: 0, Skipped: 4, Failed: 1, Total: 3}, report)
		assert.Len(t, catalogNames(t, a), 3)
	})

	t.Run("LinkResolvingToKnownName", func(t *testing.T) {
		a := newTestApp(t, "Green Curry")
		a.clipper = fakeClipper{"https://example.test/curry": "green curry"}

		report, err := a.ImportRecipes(ctx, strings.NewReader("https://example.test/curry\n"))
		require.NoError(t, err)
		assert.Equal(t, ImportReport{Skipped: 1, Total: 1}, report)
	})

	t.Run("ReadError", func(t *testing.T) {
		a := newTestApp(t)
		boom := errors.New("disk gone")

		_, err := a.ImportRecipes(ctx, iotest.ErrReader(boom))
		assert.ErrorIs(t, err, boom)
	})
}
