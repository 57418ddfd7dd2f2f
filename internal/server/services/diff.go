package services

import (
	"slices"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

// Field names reported by Diff.
const (
	FieldName         = "name"
	FieldDescription  = "description"
	FieldIngredients  = "ingredients"
	FieldInstructions = "instructions"
	FieldImage        = "image"
)

type fieldComparator struct {
	field string
	// changed reports whether upd carries this field with a value other than
	// the stored one. An absent field is never a change.
	changed func(current *models.Recipe, upd *models.RecipeUpdate) bool
}

func stringChanged(stored string, incoming *string) bool {
	return incoming != nil && *incoming != stored
}

var recipeComparators = []fieldComparator{
	{FieldName, func(c *models.Recipe, u *models.RecipeUpdate) bool { return stringChanged(c.Name, u.Name) }},
	{FieldDescription, func(c *models.Recipe, u *models.RecipeUpdate) bool { return stringChanged(c.Description, u.Description) }},
	// order matters: a reordered list is a different recipe
	{FieldIngredients, func(c *models.Recipe, u *models.RecipeUpdate) bool {
		return u.Ingredients != nil && !slices.Equal(c.Ingredients, *u.Ingredients)
	}},
	{FieldInstructions, func(c *models.Recipe, u *models.RecipeUpdate) bool { return stringChanged(c.Instructions, u.Instructions) }},
	{FieldImage, func(c *models.Recipe, u *models.RecipeUpdate) bool { return stringChanged(c.Image, u.Image) }},
}

// Diff returns the names of the fields in upd whose value differs from
// current, in a fixed field order. An empty result means the update would
// not change the record.
func Diff(current *models.Recipe, upd *models.RecipeUpdate) []string {
	if current == nil || upd == nil {
		return nil
	}

	var changed []string
	for _, cmp := range recipeComparators {
		if cmp.changed(current, upd) {
			changed = append(changed, cmp.field)
		}
	}
	return changed
}
