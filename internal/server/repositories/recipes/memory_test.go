package recipes

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	created, err := repo.Create(ctx, &models.Recipe{Name: "soup", Ingredients: []string{"water"}})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "soup", got.Name)

	got.Name = "mutated"
	again, _ := repo.GetByID(ctx, created.ID)
	assert.Equal(t, "soup", again.Name, "returned records must not alias storage")

	_, err = repo.Create(ctx, &models.Recipe{Name: "soup"})
	assert.ErrorIs(t, err, common.ErrorDuplicateName)

	other, err := repo.Create(ctx, &models.Recipe{Name: "stew"})
	require.NoError(t, err)

	taken := "soup"
	_, err = repo.Update(ctx, other.ID, &models.RecipeUpdate{Name: &taken})
	assert.ErrorIs(t, err, common.ErrorDuplicateName)

	same := "stew"
	_, err = repo.Update(ctx, other.ID, &models.RecipeUpdate{Name: &same})
	assert.NoError(t, err, "renaming to its own name is not a collision")

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), common.ErrorNotFound)
}

func TestMemoryRepository_InvalidID(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.GetByID(context.Background(), "123")
	assert.ErrorIs(t, err, common.ErrorInvalidID)
	_, err = repo.Update(context.Background(), "123", &models.RecipeUpdate{})
	assert.ErrorIs(t, err, common.ErrorInvalidID)
	assert.ErrorIs(t, repo.Delete(context.Background(), "123"), common.ErrorInvalidID)
}

func TestMemoryRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for i := 1; i <= 12; i++ {
		_, err := repo.Create(ctx, &models.Recipe{Name: fmt.Sprintf("r%d", i)})
		require.NoError(t, err)
	}

	page, err := repo.List(ctx, 5, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 12, page.Total)

	names := make([]string, 0, len(page.Recipes))
	for _, r := range page.Recipes {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"r7", "r6", "r5", "r4", "r3"}, names)

	empty, err := repo.List(ctx, 50, 5)
	require.NoError(t, err)
	assert.Empty(t, empty.Recipes)
}

func TestMemoryRepository_ListOutOfRangeOffset(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for i := 1; i <= 3; i++ {
		_, err := repo.Create(ctx, &models.Recipe{Name: fmt.Sprintf("r%d", i)})
		require.NoError(t, err)
	}

	page, err := repo.List(ctx, -4, 2)
	require.NoError(t, err)
	assert.Len(t, page.Recipes, 2)

	page, err = repo.List(ctx, math.MaxInt, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Recipes)
	assert.EqualValues(t, 3, page.Total)

	page, err = repo.List(ctx, 1, math.MaxInt)
	require.NoError(t, err)
	assert.Len(t, page.Recipes, 2)
}

func TestMemoryRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, _ = repo.Create(ctx, &models.Recipe{Name: "Pancakes", Ingredients: []string{"egg", "milk", "flour"}})
	_, _ = repo.Create(ctx, &models.Recipe{Name: "Omelette", Ingredients: []string{"egg", "salt"}})

	got, err := repo.Search(ctx, models.RecipeFilter{Name: "CAKE"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Pancakes", got[0].Name)

	got, err = repo.Search(ctx, models.RecipeFilter{Ingredients: []string{"egg"}})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.Search(ctx, models.RecipeFilter{Name: "omel", Ingredients: []string{"milk"}})
	require.NoError(t, err)
	assert.Empty(t, got)
}
