package services

import (
	"context"
	"errors"
	"math"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/repomanager"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 100
)

// UpdateStatus tells whether Update wrote anything.
type UpdateStatus string

const (
	StatusUpdated UpdateStatus = "updated"
	StatusNoop    UpdateStatus = "noop"
)

type UpdateResult struct {
	Recipe  *models.Recipe
	Status  UpdateStatus
	Changed []string
}

type ListResult struct {
	Recipes     []*models.Recipe
	Total       int64
	TotalPages  int
	CurrentPage int
}

// AssetRetirer disposes of assets no record refers to anymore. Retire must
// not block the caller.
type AssetRetirer interface {
	Retire(ctx context.Context, key string)
}

// RecipeService keeps recipe records and their images consistent. It holds no
// per-request state; concurrent writers are arbitrated by the record store.
type RecipeService struct {
	repomanager repomanager.RepositoryManager
	janitor     AssetRetirer
	logger      logging.Logger
}

func NewRecipeService(m repomanager.RepositoryManager, janitor AssetRetirer, logger logging.Logger) *RecipeService {
	return &RecipeService{
		repomanager: m,
		janitor:     janitor,
		logger:      logger.With("module", "services.recipes"),
	}
}

// Create stores input with imageKey as its image. On failure the uploaded
// asset is left in place and logged as an orphan.
func (s *RecipeService) Create(ctx context.Context, input *models.Recipe, imageKey string) (*models.Recipe, error) {
	recipe := input.Clone()
	recipe.ID = ""
	recipe.Image = imageKey

	created, err := s.repomanager.Recipes().Create(ctx, recipe)
	if err != nil {
		recipeMutations.WithLabelValues(opCreate, outcomeFailed).Inc()
		s.logOrphan(ctx, imageKey, "create failed")
		return nil, classify(err, recipe.Name)
	}

	recipeMutations.WithLabelValues(opCreate, outcomeOK).Inc()
	s.logger.Info(ctx, "recipe created", "id", created.ID, "name", created.Name)
	return created, nil
}

func (s *RecipeService) Get(ctx context.Context, id string) (*models.Recipe, error) {
	recipe, err := s.repomanager.Recipes().GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, id)
	}
	return recipe, nil
}

// List returns page (1-based) of size limit, newest first. Non-positive
// values fall back to DefaultPage and DefaultLimit.
func (s *RecipeService) List(ctx context.Context, page, limit int) (*ListResult, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	// a page whose offset does not fit in an int lies past any stored data
	offset := math.MaxInt
	if page-1 <= math.MaxInt/limit {
		offset = (page - 1) * limit
	}

	res, err := s.repomanager.Recipes().List(ctx, offset, limit)
	if err != nil {
		return nil, classify(err, "")
	}

	pages := res.Total / int64(limit)
	if res.Total%int64(limit) != 0 {
		pages++
	}

	return &ListResult{
		Recipes:     res.Recipes,
		Total:       res.Total,
		TotalPages:  int(pages),
		CurrentPage: page,
	}, nil
}

// Update applies upd to the recipe id. newImageKey, when non-empty, is a
// freshly uploaded image replacing the current one; without it any image in
// upd is ignored. Nothing is written when no field changes. The superseded
// image is retired only after the record write succeeded.
func (s *RecipeService) Update(ctx context.Context, id string, upd *models.RecipeUpdate, newImageKey string) (*UpdateResult, error) {
	repo := s.repomanager.Recipes()

	current, err := repo.GetByID(ctx, id)
	if err != nil {
		recipeMutations.WithLabelValues(opUpdate, outcomeFailed).Inc()
		s.logOrphan(ctx, newImageKey, "update target unavailable")
		return nil, classify(err, id)
	}

	payload := models.RecipeUpdate{}
	if upd != nil {
		payload = *upd
	}

	var oldImageKey string
	if newImageKey != "" {
		payload.Image = &newImageKey
		oldImageKey = current.Image
	} else {
		payload.Image = nil
	}

	changed := Diff(current, &payload)
	if len(changed) == 0 {
		recipeMutations.WithLabelValues(opUpdate, outcomeNoop).Inc()
		s.logOrphan(ctx, newImageKey, "update was a no-op")
		return &UpdateResult{Recipe: current, Status: StatusNoop}, nil
	}

	updated, err := repo.Update(ctx, id, &payload)
	if err != nil {
		recipeMutations.WithLabelValues(opUpdate, outcomeFailed).Inc()
		s.logOrphan(ctx, newImageKey, "update failed")
		subject := id
		if errors.Is(err, common.ErrorDuplicateName) && payload.Name != nil {
			subject = *payload.Name
		}
		return nil, classify(err, subject)
	}

	if oldImageKey != "" && oldImageKey != newImageKey {
		s.janitor.Retire(ctx, oldImageKey)
	}

	recipeMutations.WithLabelValues(opUpdate, outcomeOK).Inc()
	s.logger.Info(ctx, "recipe updated", "id", id, "changed", changed)
	return &UpdateResult{Recipe: updated, Status: StatusUpdated, Changed: changed}, nil
}

// Delete removes the recipe id and then retires its image.
func (s *RecipeService) Delete(ctx context.Context, id string) error {
	repo := s.repomanager.Recipes()

	current, err := repo.GetByID(ctx, id)
	if err != nil {
		recipeMutations.WithLabelValues(opDelete, outcomeFailed).Inc()
		return classify(err, id)
	}

	if err := repo.Delete(ctx, id); err != nil {
		recipeMutations.WithLabelValues(opDelete, outcomeFailed).Inc()
		return classify(err, id)
	}

	s.janitor.Retire(ctx, current.Image)

	recipeMutations.WithLabelValues(opDelete, outcomeOK).Inc()
	s.logger.Info(ctx, "recipe deleted", "id", id)
	return nil
}

func (s *RecipeService) logOrphan(ctx context.Context, key, reason string) {
	if key == "" {
		return
	}
	s.logger.Warn(ctx, "uploaded asset left unreferenced", "orphan_asset", key, "reason", reason)
}

// classify turns a repository error into a Fault of the matching kind.
// subject names the id or name the caller supplied.
func classify(err error, subject string) error {
	switch {
	case errors.Is(err, common.ErrorInvalidID):
		return common.NewFault(common.ErrorInvalidID, subject, nil)
	case errors.Is(err, common.ErrorNotFound):
		return common.NewFault(common.ErrorNotFound, subject, nil)
	case errors.Is(err, common.ErrorDuplicateName):
		return common.NewFault(common.ErrorDuplicateName, subject, err)
	}
	return common.NewFault(common.ErrorStorage, "", err)
}
