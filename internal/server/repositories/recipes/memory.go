package recipes

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/google/uuid"
)

type memoryRecord struct {
	recipe *models.Recipe
	seq    uint64
}

// MemoryRepository keeps recipes in process memory. It honors the same
// uniqueness and id rules as the database-backed repositories.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*memoryRecord
	seq     uint64
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[string]*memoryRecord),
		now:     time.Now,
	}
}

// SetClock overrides the time source used for timestamps.
func (r *MemoryRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *MemoryRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTakenLocked(recipe.Name, "") {
		return nil, fmt.Errorf("%w: %q", common.ErrorDuplicateName, recipe.Name)
	}

	stored := recipe.Clone()
	if stored.Ingredients == nil {
		stored.Ingredients = []string{}
	}
	stored.ID = uuid.NewString()
	stored.CreatedAt = r.now()
	stored.UpdatedAt = stored.CreatedAt

	r.seq++
	r.records[stored.ID] = &memoryRecord{recipe: stored, seq: r.seq}

	recipe.ID = stored.ID
	recipe.CreatedAt = stored.CreatedAt
	recipe.UpdatedAt = stored.UpdatedAt
	return recipe, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorInvalidID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return rec.recipe.Clone(), nil
}

func (r *MemoryRepository) List(ctx context.Context, offset, limit int) (*models.RecipePage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.sortedLocked(func(*models.Recipe) bool { return true })
	page := &models.RecipePage{Total: int64(len(all)), Recipes: []*models.Recipe{}}

	offset = max(offset, 0)
	if offset >= len(all) || limit < 1 {
		return page, nil
	}
	end := offset + min(limit, len(all)-offset)
	page.Recipes = all[offset:end]
	return page, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, upd *models.RecipeUpdate) (*models.Recipe, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Name != nil && r.nameTakenLocked(*upd.Name, id) {
		return nil, fmt.Errorf("%w: %q", common.ErrorDuplicateName, *upd.Name)
	}

	upd.Apply(rec.recipe)
	rec.recipe.UpdatedAt = r.now()
	return rec.recipe.Clone(), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *MemoryRepository) Search(ctx context.Context, filter models.RecipeFilter) ([]*models.Recipe, error) {
	name := strings.ToLower(filter.Name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedLocked(func(rec *models.Recipe) bool {
		if name != "" && !strings.Contains(strings.ToLower(rec.Name), name) {
			return false
		}
		for _, ingredient := range filter.Ingredients {
			if !slices.Contains(rec.Ingredients, ingredient) {
				return false
			}
		}
		return true
	}), nil
}

func (r *MemoryRepository) nameTakenLocked(name, exceptID string) bool {
	for id, rec := range r.records {
		if id != exceptID && rec.recipe.Name == name {
			return true
		}
	}
	return false
}

// sortedLocked returns clones of the matching records, newest first.
func (r *MemoryRepository) sortedLocked(match func(*models.Recipe) bool) []*models.Recipe {
	recs := make([]*memoryRecord, 0, len(r.records))
	for _, rec := range r.records {
		if match(rec.recipe) {
			recs = append(recs, rec)
		}
	}

	slices.SortFunc(recs, func(a, b *memoryRecord) int {
		if c := b.recipe.CreatedAt.Compare(a.recipe.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})

	out := make([]*models.Recipe, len(recs))
	for i, rec := range recs {
		out[i] = rec.recipe.Clone()
	}
	return out
}
