package recipes

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection holding recipe documents.
const CollectionName = "recipes"

type recipeDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Description  string             `bson:"description"`
	Ingredients  []string           `bson:"ingredients"`
	Instructions string             `bson:"instructions"`
	Image        string             `bson:"image,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d *recipeDocument) model() *models.Recipe {
	ingredients := d.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return &models.Recipe{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Description:  d.Description,
		Ingredients:  ingredients,
		Instructions: d.Instructions,
		Image:        d.Image,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

type MongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll, now: mongoNow}
}

// Mongo stores dates with millisecond precision.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// EnsureIndexes creates the unique name index the duplicate check relies on.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: newestFirst},
	})
	if err != nil {
		return fmt.Errorf("mongo error: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	now := r.now()
	doc := recipeDocument{
		Name:         recipe.Name,
		Description:  recipe.Description,
		Ingredients:  recipe.Ingredients,
		Instructions: recipe.Instructions,
		Image:        recipe.Image,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if doc.Ingredients == nil {
		doc.Ingredients = []string{}
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, mapMongoError(err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("mongo error: unexpected inserted id %T", res.InsertedID)
	}

	recipe.ID = oid.Hex()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	return recipe, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrorInvalidID
	}

	var doc recipeDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	return doc.model(), nil
}

func (r *MongoRepository) List(ctx context.Context, offset, limit int) (*models.RecipePage, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, mapMongoError(err)
	}

	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	recipes, err := r.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	return &models.RecipePage{Recipes: recipes, Total: total}, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, upd *models.RecipeUpdate) (*models.Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrorInvalidID
	}

	set := bson.M{"updatedAt": r.now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Ingredients != nil {
		set["ingredients"] = *upd.Ingredients
	}
	if upd.Instructions != nil {
		set["instructions"] = *upd.Instructions
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc recipeDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		return nil, mapMongoError(err)
	}
	return doc.model(), nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrorInvalidID
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return mapMongoError(err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MongoRepository) Search(ctx context.Context, filter models.RecipeFilter) ([]*models.Recipe, error) {
	return r.find(ctx, searchFilter(filter), options.Find().SetSort(newestFirst))
}

func searchFilter(filter models.RecipeFilter) bson.M {
	query := bson.M{}
	if filter.Name != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Name), Options: "i"}
	}
	if len(filter.Ingredients) > 0 {
		query["ingredients"] = bson.M{"$all": filter.Ingredients}
	}
	return query
}

func (r *MongoRepository) find(ctx context.Context, filter any, opts *options.FindOptions) ([]*models.Recipe, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapMongoError(err)
	}

	var docs []recipeDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapMongoError(err)
	}

	recipes := make([]*models.Recipe, 0, len(docs))
	for i := range docs {
		recipes = append(recipes, docs[i].model())
	}
	return recipes, nil
}

func mapMongoError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return common.ErrorNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %w", common.ErrorDuplicateName, err)
	}
	return fmt.Errorf("mongo error: %w", err)
}
