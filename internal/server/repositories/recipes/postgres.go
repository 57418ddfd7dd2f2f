package recipes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/google/uuid"
)

const nameConstraint = "recipes_name_key"

const recipeColumns = `id, name, description, ingredients, instructions, image, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	ingredients, err := encodeIngredients(recipe.Ingredients)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO recipes (name, description, ingredients, instructions, image)
		 VALUES ($1, $2, $3::jsonb, $4, $5)
		 RETURNING id, created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		recipe.Name, recipe.Description, ingredients, recipe.Instructions, recipe.Image).
		Scan(&recipe.ID, &recipe.CreatedAt, &recipe.UpdatedAt)

	if err != nil {
		return nil, mapError(err)
	}

	return recipe, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorInvalidID
	}

	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = $1`

	recipe, err := scanRecipe(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}

	return recipe, nil
}

func (r *PostgresRepository) List(ctx context.Context, offset, limit int) (*models.RecipePage, error) {
	page := &models.RecipePage{}

	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM recipes`).Scan(&page.Total); err != nil {
		return nil, mapError(err)
	}

	query := `SELECT ` + recipeColumns + ` FROM recipes
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1 OFFSET $2
		 `

	recipes, err := r.queryRecipes(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	page.Recipes = recipes

	return page, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd *models.RecipeUpdate) (*models.Recipe, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorInvalidID
	}

	var ingredients any
	if upd.Ingredients != nil {
		enc, err := encodeIngredients(*upd.Ingredients)
		if err != nil {
			return nil, err
		}
		ingredients = enc
	}

	query :=
		`UPDATE recipes SET
		   name = COALESCE($2, name),
		   description = COALESCE($3, description),
		   ingredients = COALESCE($4::jsonb, ingredients),
		   instructions = COALESCE($5, instructions),
		   image = COALESCE($6, image),
		   updated_at = now()
		 WHERE id = $1
		 RETURNING ` + recipeColumns

	recipe, err := scanRecipe(r.db.QueryRowContext(ctx, query, id,
		nullable(upd.Name), nullable(upd.Description), ingredients,
		nullable(upd.Instructions), nullable(upd.Image)))

	if err != nil {
		return nil, mapError(err)
	}

	return recipe, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorInvalidID
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Search(ctx context.Context, filter models.RecipeFilter) ([]*models.Recipe, error) {
	ingredients, err := encodeIngredients(filter.Ingredients)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + recipeColumns + ` FROM recipes
		 WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' ESCAPE '\')
		   AND ingredients @> $2::jsonb
		 ORDER BY created_at DESC, id DESC
		 `

	return r.queryRecipes(ctx, query, escapeLike(filter.Name), ingredients)
}

func (r *PostgresRepository) queryRecipes(ctx context.Context, query string, args ...any) ([]*models.Recipe, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	recipes := make([]*models.Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, mapError(err)
		}
		recipes = append(recipes, recipe)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return recipes, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row scanner) (*models.Recipe, error) {
	var (
		recipe      models.Recipe
		ingredients []byte
	)

	err := row.Scan(&recipe.ID, &recipe.Name, &recipe.Description, &ingredients,
		&recipe.Instructions, &recipe.Image, &recipe.CreatedAt, &recipe.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(ingredients, &recipe.Ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}

	return &recipe, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return common.ErrorNotFound
	case dbx.IsUniqueViolation(err, nameConstraint):
		return fmt.Errorf("%w: %w", common.ErrorDuplicateName, err)
	case dbx.IsInvalidInput(err):
		return fmt.Errorf("%w: %w", common.ErrorInvalidID, err)
	}
	return fmt.Errorf("db error: %w", err)
}

func encodeIngredients(ingredients []string) (string, error) {
	if ingredients == nil {
		ingredients = []string{}
	}
	b, err := json.Marshal(ingredients)
	if err != nil {
		return "", fmt.Errorf("encode ingredients: %w", err)
	}
	return string(b), nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
