package villaRepo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"villastay/database/repository"
	"villastay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoVillaRepo implements VillaRepository using MongoDB.
type MongoVillaRepo struct {
	coll *mongo.Collection
}

// NewMongoVillaRepo creates a new instance of VillaRepository using MongoDB.
func NewMongoVillaRepo(db *mongo.Database) VillaRepository {
	return &MongoVillaRepo{coll: db.Collection("villas")}
}

// EnsureIndexes creates indexes for fields frequently used in queries.
func (r *MongoVillaRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "isPublished", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create villa indexes: %w", err)
	}
	return nil
}

// BuildListFilter translates listing parameters into a query. Without
// IncludeInactive the result is always restricted to active, published
// villas; isActive and isPublished filters can only narrow that.
func BuildListFilter(f models.VillaFilter) bson.M {
	var conds []bson.M
	if !f.IncludeInactive {
		conds = append(conds, bson.M{"isActive": true}, bson.M{"isPublished": true})
	}
	if f.IsActive != nil {
		conds = append(conds, bson.M{"isActive": *f.IsActive})
	}
	if f.IsPublished != nil {
		conds = append(conds, bson.M{"isPublished": *f.IsPublished})
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		conds = append(conds, bson.M{"$or": bson.A{
			bson.M{"name": rx},
			bson.M{"location": rx},
		}})
	}

	switch len(conds) {
	case 0:
		return bson.M{}
	case 1:
		return conds[0]
	}
	all := make(bson.A, 0, len(conds))
	for _, c := range conds {
		all = append(all, c)
	}
	return bson.M{"$and": all}
}

// Create inserts a new villa document.
func (r *MongoVillaRepo) Create(ctx context.Context, villa *models.Villa) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, villa); err != nil {
		return fmt.Errorf("failed to create villa: %w", repository.TranslateError(err))
	}
	return nil
}

// GetByID retrieves a villa by its unique ID.
func (r *MongoVillaRepo) GetByID(ctx context.Context, id string) (*models.Villa, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var villa models.Villa
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&villa); err != nil {
		return nil, fmt.Errorf("failed to fetch villa %s: %w", id, repository.TranslateError(err))
	}
	return &villa, nil
}

// List returns one page of villas, newest first, with the total match count.
func (r *MongoVillaRepo) List(ctx context.Context, f models.VillaFilter) ([]models.Villa, int64, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := BuildListFilter(f)
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count villas: %w", err)
	}

	cursor, err := r.coll.Find(ctx, filter, repository.PageOptions(f.Page, f.Limit))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list villas: %w", err)
	}
	defer cursor.Close(ctx)

	villas := []models.Villa{}
	if err := cursor.All(ctx, &villas); err != nil {
		return nil, 0, fmt.Errorf("failed to decode villas: %w", err)
	}
	return villas, total, nil
}

// Update replaces an existing villa document.
func (r *MongoVillaRepo) Update(ctx context.Context, villa *models.Villa) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	result, err := r.coll.ReplaceOne(ctx, bson.M{"id": villa.ID}, villa)
	if err != nil {
		return fmt.Errorf("failed to update villa %s: %w", villa.ID, repository.TranslateError(err))
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("villa %s: %w", villa.ID, repository.ErrNotFound)
	}
	return nil
}

// Delete removes a villa document by its ID.
func (r *MongoVillaRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete villa %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("villa %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
