package recipe

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// every pooled connection would otherwise get its own empty database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE recipes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			recipe_name TEXT NOT NULL CHECK (length(trim(recipe_name)) > 0)
		);
	`)
	require.NoError(t, err)

	return NewRepository(db)
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := setupRepository(t)

	t.Run("Empty", func(t *testing.T) {
		recipes, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, recipes)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("AddKeepsInsertionOrder", func(t *testing.T) {
		for _, name := range []string{"Oatmeal", "Salad", "Soup"} {
			rec, err := repo.Add(ctx, name)
			require.NoError(t, err)
			assert.Equal(t, name, rec.Name)
			assert.NotZero(t, rec.ID)
		}

		recipes, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, recipes, 3)
		assert.Equal(t, "Oatmeal", recipes[0].Name)
		assert.Equal(t, "Salad", recipes[1].Name)
		assert.Equal(t, "Soup", recipes[2].Name)
	})

	t.Run("DuplicatesAllowed", func(t *testing.T) {
		_, err := repo.Add(ctx, "Soup")
		require.NoError(t, err)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})

	t.Run("EmptyNameRejectedByStore", func(t *testing.T) {
		_, err := repo.Add(ctx, "")
		assert.Error(t, err)
	})

	t.Run("AtPosition", func(t *testing.T) {
		rec, err := repo.AtPosition(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "Salad", rec.Name)

		rec, err = repo.AtPosition(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, "Soup", rec.Name)
	})

	t.Run("AtPosition-OutOfRange", func(t *testing.T) {
		for _, pos := range []int{-1, 0, 5, 100} {
			_, err := repo.AtPosition(ctx, pos)
			assert.ErrorIs(t, err, ErrNotFound, "position %d", pos)
		}
	})
}

func TestNumber(t *testing.T) {
	numbered := Number([]Recipe{{ID: 7, Name: "Oatmeal"}, {ID: 9, Name: "Soup"}})

	require.Len(t, numbered, 2)
	assert.Equal(t, 1, numbered[0].Position)
	assert.Equal(t, "Oatmeal", numbered[0].Name)
	assert.Equal(t, 2, numbered[1].Position)
	assert.Equal(t, int64(9), numbered[1].ID)
}
