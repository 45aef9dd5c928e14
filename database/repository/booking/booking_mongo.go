package bookingRepo

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

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	return &MongoBookingRepo{coll: db.Collection("bookings")}
}

func (r *MongoBookingRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "bookingReference", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "bookingRequestId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "bookingStatus", Value: 1}, {Key: "paymentStatus", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", repository.TranslateError(err))
	}
	return nil
}

func (r *MongoBookingRepo) findOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&booking); err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", repository.TranslateError(err))
	}
	return &booking, nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoBookingRepo) GetByReference(ctx context.Context, reference string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"bookingReference": reference})
}

func (r *MongoBookingRepo) GetByRequestID(ctx context.Context, requestID string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"bookingRequestId": requestID})
}

func (r *MongoBookingRepo) List(ctx context.Context, f models.BookingFilter) ([]models.Booking, int64, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{}
	if f.BookingStatus != "" {
		filter["bookingStatus"] = f.BookingStatus
	}
	if f.PaymentStatus != "" {
		filter["paymentStatus"] = f.PaymentStatus
	}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	cursor, err := r.coll.Find(ctx, filter, repository.PageOptions(f.Page, f.Limit))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, total, nil
}

func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, id string, u models.BookingStatusUpdate) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	set := bson.M{"updatedAt": time.Now()}
	if u.BookingStatus != "" {
		set["bookingStatus"] = u.BookingStatus
	}
	if u.PaymentStatus != "" {
		set["paymentStatus"] = u.PaymentStatus
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Booking
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to update booking %s: %w", id, repository.TranslateError(err))
	}
	return &updated, nil
}
