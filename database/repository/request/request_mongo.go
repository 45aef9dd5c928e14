package requestRepo

import (
	"context"
	"fmt"
	"time"

	"villastay/database/repository"
	"villastay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRequestRepo struct {
	coll *mongo.Collection
}

// NewMongoRequestRepo returns a BookingRequestRepository backed by MongoDB.
func NewMongoRequestRepo(db *mongo.Database) BookingRequestRepository {
	return &mongoRequestRepo{coll: db.Collection("booking_requests")}
}

func (r *mongoRequestRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "villaId", Value: 1}, {Key: "checkIn", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking request indexes: %w", err)
	}
	return nil
}

func (r *mongoRequestRepo) Create(ctx context.Context, req *models.BookingRequest) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to create booking request: %w", repository.TranslateError(err))
	}
	return nil
}

func (r *mongoRequestRepo) GetByID(ctx context.Context, id string) (*models.BookingRequest, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var req models.BookingRequest
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to fetch booking request %s: %w", id, repository.TranslateError(err))
	}
	return &req, nil
}

func (r *mongoRequestRepo) List(ctx context.Context, f models.RequestFilter) ([]models.BookingRequest, int64, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count booking requests: %w", err)
	}

	cursor, err := r.coll.Find(ctx, filter, repository.PageOptions(f.Page, f.Limit))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list booking requests: %w", err)
	}
	defer cursor.Close(ctx)

	requests := []models.BookingRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, 0, fmt.Errorf("failed to decode booking requests: %w", err)
	}
	return requests, total, nil
}

func (r *mongoRequestRepo) UpdateStatus(ctx context.Context, id string, from []models.RequestStatus, u StatusUpdate) (*models.BookingRequest, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{"id": id, "status": bson.M{"$in": from}}
	if u.Unbooked {
		filter["bookingId"] = bson.M{"$exists": false}
	}
	set := bson.M{
		"status":      u.Status,
		"respondedBy": u.RespondedBy,
		"respondedAt": u.RespondedAt,
		"updatedAt":   u.RespondedAt,
	}
	if u.CustomOffer != nil {
		set["customOffer"] = u.CustomOffer
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.BookingRequest
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking request %s: %w", id, repository.TranslateError(err))
	}
	return &updated, nil
}

func (r *mongoRequestRepo) LinkBooking(ctx context.Context, id, bookingID string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{"id": id, "bookingId": bson.M{"$exists": false}}
	update := bson.M{"$set": bson.M{"bookingId": bookingID, "updatedAt": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to link booking to request %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("booking request %s already linked or missing: %w", id, repository.ErrNotFound)
	}
	return nil
}
