// Package recipes holds the recipe record repositories. Every implementation
// reports failures with the common taxonomy: common.ErrorInvalidID for an id
// the store cannot parse, common.ErrorNotFound for a missing record and
// common.ErrorDuplicateName when the unique name index rejects a write.
// Anything else is returned wrapped and is treated as a storage failure.
package recipes

import (
	"context"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	GetByID(ctx context.Context, id string) (*models.Recipe, error)
	// List returns records newest first.
	List(ctx context.Context, offset, limit int) (*models.RecipePage, error)
	// Update writes the present fields of upd and returns the stored record.
	Update(ctx context.Context, id string, upd *models.RecipeUpdate) (*models.Recipe, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, filter models.RecipeFilter) ([]*models.Recipe, error)
}
