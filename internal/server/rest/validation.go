package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/go-playground/validator/v10"
)

const maxJSONBody = 1 << 20

// recipeCreateRequest is the shape accepted by POST /api/recipes.
type recipeCreateRequest struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Ingredients  []string `json:"ingredients" validate:"required,min=1,dive,required"`
	Instructions string   `json:"instructions" validate:"required"`
}

// recipePatchRequest is the shape accepted by PUT /api/recipes/{id}. Absent
// fields are left alone.
type recipePatchRequest struct {
	Name         *string   `json:"name" validate:"omitnil,min=1"`
	Description  *string   `json:"description" validate:"omitnil,min=1"`
	Ingredients  *[]string `json:"ingredients" validate:"omitnil,min=1,dive,required"`
	Instructions *string   `json:"instructions" validate:"omitnil,min=1"`
}

func (p *recipePatchRequest) toCreate() recipeCreateRequest {
	var c recipeCreateRequest
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Ingredients != nil {
		c.Ingredients = *p.Ingredients
	}
	if p.Instructions != nil {
		c.Instructions = *p.Instructions
	}
	return c
}

func (p *recipePatchRequest) toUpdate() *models.RecipeUpdate {
	return &models.RecipeUpdate{
		Name:         p.Name,
		Description:  p.Description,
		Ingredients:  p.Ingredients,
		Instructions: p.Instructions,
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage renders validator errors as one readable sentence.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return strings.Join(msgs, "; ")
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "min":
		switch fe.Kind() {
		case reflect.Slice, reflect.Array:
			return fmt.Sprintf("%q must contain at least %s item(s)", field, fe.Param())
		case reflect.String:
			if fe.Param() == "1" {
				return fmt.Sprintf("%q is not allowed to be empty", field)
			}
			return fmt.Sprintf("%q must be at least %s characters long", field, fe.Param())
		}
	}
	return fmt.Sprintf("%q failed on %s", field, fe.Tag())
}

// decodeRecipe reads a recipe payload from a JSON, multipart or urlencoded
// body. In forms, ingredients may repeat and "ingredients[]" is accepted.
func decodeRecipe(w http.ResponseWriter, r *http.Request) (*recipePatchRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		if r.MultipartForm == nil {
			return nil, errors.New("multipart form was not parsed")
		}
		return recipeFromForm(r.MultipartForm.Value), nil
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return recipeFromForm(r.PostForm), nil
	}

	var p recipePatchRequest
	if err := decodeJSON(w, r, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func recipeFromForm(values map[string][]string) *recipePatchRequest {
	p := &recipePatchRequest{}
	str := func(key string) *string {
		v, ok := values[key]
		if !ok || len(v) == 0 {
			return nil
		}
		return &v[0]
	}

	p.Name = str("name")
	p.Description = str("description")
	p.Instructions = str("instructions")

	var ingredients []string
	present := false
	for _, key := range []string{"ingredients", "ingredients[]"} {
		if v, ok := values[key]; ok {
			present = true
			ingredients = append(ingredients, v...)
		}
	}
	if present {
		p.Ingredients = &ingredients
	}
	return p
}

// decodeJSON reads at most maxJSONBody bytes of r into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	return nil
}

// writeBodyError answers a request whose body could not be decoded.
func (s *Server) writeBodyError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.writeError(w, r, http.StatusRequestEntityTooLarge, "Payload too large",
			fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
		return
	}
	s.writeError(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
}
