package recipes

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testID = "5b0a6f3e-8f5e-4a0c-9d36-2f7a9a3c1e01"

var recipeCols = []string{"id", "name", "description", "ingredients", "instructions", "image", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestPostgresCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	q := `(?s)^INSERT\s+INTO\s+recipes\s*\(name,\s*description,\s*ingredients,\s*instructions,\s*image\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3::jsonb,\s*\$4,\s*\$5\)\s*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`
	mock.ExpectQuery(q).
		WithArgs("soup", "hot", `["water","salt"]`, "boil", "recipes/a.png").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(testID, now, now))

	got, err := repo.Create(context.Background(), &models.Recipe{
		Name: "soup", Description: "hot", Ingredients: []string{"water", "salt"},
		Instructions: "boil", Image: "recipes/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, testID, got.ID)
	assert.Equal(t, now, got.CreatedAt)
}

func TestPostgresCreate_DuplicateName(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+recipes`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "recipes_name_key"})

	_, err := repo.Create(context.Background(), &models.Recipe{Name: "soup"})
	assert.ErrorIs(t, err, common.ErrorDuplicateName)
}

func TestPostgresCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+recipes`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Recipe{Name: "soup"})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
	assert.NotErrorIs(t, err, common.ErrorDuplicateName)
}

func TestPostgresGetByID(t *testing.T) {
	q := `(?s)^SELECT\s+id,\s*name,.*FROM\s+recipes\s+WHERE\s+id\s*=\s*\$1$`
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(testID).
			WillReturnRows(sqlmock.NewRows(recipeCols).
				AddRow(testID, "soup", "hot", []byte(`["water"]`), "boil", "", now, now))

		got, err := repo.GetByID(context.Background(), testID)
		require.NoError(t, err)
		assert.Equal(t, "soup", got.Name)
		assert.Equal(t, []string{"water"}, got.Ingredients)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(testID).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), testID)
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("malformed id never reaches the db", func(t *testing.T) {
		repo, _ := newRepoWithMock(t)

		_, err := repo.GetByID(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, common.ErrorInvalidID)
	})

	t.Run("server rejects literal", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(testID).WillReturnError(&pgconn.PgError{Code: "22P02"})

		_, err := repo.GetByID(context.Background(), testID)
		assert.ErrorIs(t, err, common.ErrorInvalidID)
	})
}

func TestPostgresList(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`^SELECT count\(\*\) FROM recipes$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(12)))
	mock.ExpectQuery(`(?s)ORDER\s+BY\s+created_at\s+DESC,\s*id\s+DESC\s+LIMIT\s+\$1\s+OFFSET\s+\$2`).
		WithArgs(5, 5).
		WillReturnRows(sqlmock.NewRows(recipeCols).
			AddRow(testID, "r7", "d", []byte(`[]`), "i", "", now, now).
			AddRow("5b0a6f3e-8f5e-4a0c-9d36-2f7a9a3c1e02", "r6", "d", []byte(`["egg"]`), "i", "", now, now))

	page, err := repo.List(context.Background(), 5, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 12, page.Total)
	require.Len(t, page.Recipes, 2)
	assert.Equal(t, "r7", page.Recipes[0].Name)
	assert.Equal(t, []string{}, page.Recipes[0].Ingredients)
}

func TestPostgresList_CountError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT count`).WillReturnError(errors.New("db err"))

	_, err := repo.List(context.Background(), 0, 5)
	assert.ErrorContains(t, err, "db err")
}

func TestPostgresUpdate_PartialFields(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	name := "stew"
	ingr := []string{"beef", "carrot"}

	mock.ExpectQuery(`(?s)^UPDATE\s+recipes\s+SET.*COALESCE\(\$4::jsonb,\s*ingredients\).*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+RETURNING`).
		WithArgs(testID, "stew", nil, `["beef","carrot"]`, nil, nil).
		WillReturnRows(sqlmock.NewRows(recipeCols).
			AddRow(testID, "stew", "hot", []byte(`["beef","carrot"]`), "boil", "recipes/a.png", now, now))

	got, err := repo.Update(context.Background(), testID, &models.RecipeUpdate{Name: &name, Ingredients: &ingr})
	require.NoError(t, err)
	assert.Equal(t, "stew", got.Name)
	assert.Equal(t, "recipes/a.png", got.Image)
}

func TestPostgresUpdate_Errors(t *testing.T) {
	name := "dup"

	t.Run("duplicate", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`(?s)^UPDATE\s+recipes`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "recipes_name_key"})

		_, err := repo.Update(context.Background(), testID, &models.RecipeUpdate{Name: &name})
		assert.ErrorIs(t, err, common.ErrorDuplicateName)
	})

	t.Run("vanished between read and write", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`(?s)^UPDATE\s+recipes`).WillReturnError(sql.ErrNoRows)

		_, err := repo.Update(context.Background(), testID, &models.RecipeUpdate{Name: &name})
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("bad id", func(t *testing.T) {
		repo, _ := newRepoWithMock(t)

		_, err := repo.Update(context.Background(), "42", &models.RecipeUpdate{Name: &name})
		assert.ErrorIs(t, err, common.ErrorInvalidID)
	})
}

func TestPostgresDelete(t *testing.T) {
	q := `^DELETE FROM recipes WHERE id = \$1$`

	t.Run("deleted", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(q).WithArgs(testID).WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.Delete(context.Background(), testID))
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(q).WithArgs(testID).WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.Delete(context.Background(), testID), common.ErrorNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(q).WithArgs(testID).WillReturnError(errors.New("db err"))
		assert.ErrorContains(t, repo.Delete(context.Background(), testID), "db error: db err")
	})
}

func TestPostgresSearch_EscapesNameAndEncodesIngredients(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)name\s+ILIKE.*ingredients\s+@>\s+\$2::jsonb`).
		WithArgs(`50\% off\_`, `["egg","milk"]`).
		WillReturnRows(sqlmock.NewRows(recipeCols).
			AddRow(testID, "50% off_pancakes", "d", []byte(`["egg","milk","flour"]`), "i", "", now, now))

	got, err := repo.Search(context.Background(), models.RecipeFilter{Name: "50% off_", Ingredients: []string{"egg", "milk"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "50% off_pancakes", got[0].Name)
}

func TestPostgresSearch_NoFilterMatchesEverything(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)FROM\s+recipes\s+WHERE`).
		WithArgs("", `[]`).
		WillReturnRows(sqlmock.NewRows(recipeCols))

	got, err := repo.Search(context.Background(), models.RecipeFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\\b\%c\_d`, escapeLike(`a\b%c_d`))
}
