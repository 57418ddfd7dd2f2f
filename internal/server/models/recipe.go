package models

import (
	"slices"
	"time"
)

// Recipe is a stored catalog record. Image holds the asset key of the
// uploaded picture, empty when the recipe has none.
type Recipe struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Ingredients  []string  `json:"ingredients"`
	Instructions string    `json:"instructions"`
	Image        string    `json:"image,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of r.
func (r *Recipe) Clone() *Recipe {
	if r == nil {
		return nil
	}
	c := *r
	c.Ingredients = slices.Clone(r.Ingredients)
	return &c
}

// RecipeUpdate is a partial update. Nil fields are absent and left untouched.
type RecipeUpdate struct {
	Name         *string
	Description  *string
	Ingredients  *[]string
	Instructions *string
	Image        *string
}

// Empty reports whether no field is present.
func (u *RecipeUpdate) Empty() bool {
	return u == nil || (u.Name == nil && u.Description == nil && u.Ingredients == nil &&
		u.Instructions == nil && u.Image == nil)
}

// Apply copies every present field of u onto r.
func (u *RecipeUpdate) Apply(r *Recipe) {
	if u == nil || r == nil {
		return
	}
	if u.Name != nil {
		r.Name = *u.Name
	}
	if u.Description != nil {
		r.Description = *u.Description
	}
	if u.Ingredients != nil {
		r.Ingredients = slices.Clone(*u.Ingredients)
	}
	if u.Instructions != nil {
		r.Instructions = *u.Instructions
	}
	if u.Image != nil {
		r.Image = *u.Image
	}
}

// RecipeFilter narrows a search. Empty fields do not constrain the result.
type RecipeFilter struct {
	Name        string
	Ingredients []string
}

// RecipePage is one page of a listing together with the overall count.
type RecipePage struct {
	Recipes []*Recipe
	Total   int64
}
