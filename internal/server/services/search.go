package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

// SearchCriteria combines an optional case-insensitive name fragment with a
// list of ingredients that must all be present.
type SearchCriteria struct {
	Name        string
	Ingredients []string
}

// ParseIngredients splits a comma-separated list, trimming blanks and
// dropping empty items.
func ParseIngredients(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Search returns every recipe matching c, newest first. An empty result is
// reported as common.ErrorNoMatch.
func (s *RecipeService) Search(ctx context.Context, c SearchCriteria) ([]*models.Recipe, error) {
	filter := models.RecipeFilter{
		Name:        strings.TrimSpace(c.Name),
		Ingredients: c.Ingredients,
	}

	found, err := s.repomanager.Recipes().Search(ctx, filter)
	if err != nil {
		return nil, classify(err, "")
	}
	if len(found) == 0 {
		return nil, common.NewFault(common.ErrorNoMatch, "", nil)
	}
	return found, nil
}
