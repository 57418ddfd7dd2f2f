// Package users holds the account repositories. A duplicate email is reported
// as common.ErrorDuplicateEmail, a missing account as common.ErrorNotFound.
package users

import (
	"context"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
