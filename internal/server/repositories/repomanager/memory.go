package repomanager

import (
	"context"

	"github.com/dmitrijs2005/recipebox/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. Data does not
// survive a restart.
type MemoryRepositoryManager struct {
	recipes *recipes.MemoryRepository
	users   *users.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		recipes: recipes.NewMemoryRepository(),
		users:   users.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Recipes() recipes.Repository { return m.recipes }

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Ping(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close(context.Context) error { return nil }
