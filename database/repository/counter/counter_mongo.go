package counterRepo

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

// maxUpsertAttempts bounds retries of the first upsert for a pair. Two
// writers racing to create the same counter document can make one of
// them fail on the unique index; retrying turns it into an increment.
const maxUpsertAttempts = 3

type mongoCounterRepo struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoCounterRepo returns a CounterRepository backed by MongoDB.
func NewMongoCounterRepo(db *mongo.Database) CounterRepository {
	return newMongoCounterRepo(db.Collection("booking_reference_counters"))
}

func newMongoCounterRepo(coll *mongo.Collection) *mongoCounterRepo {
	return &mongoCounterRepo{coll: coll, now: time.Now}
}

func (r *mongoCounterRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "villaId", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.coll.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create counter index: %w", err)
	}
	return nil
}

func (r *mongoCounterRepo) Next(ctx context.Context, villaID, date string) (int, error) {
	filter := bson.M{"villaId": villaID, "date": date}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var lastErr error
	for attempt := 1; attempt <= maxUpsertAttempts; attempt++ {
		now := r.now()
		update := bson.M{
			"$inc":         bson.M{"seq": 1},
			"$set":         bson.M{"updatedAt": now},
			"$setOnInsert": bson.M{"createdAt": now},
		}

		callCtx, cancel := repository.WithTimeout(ctx)
		var counter models.BookingReferenceCounter
		err := r.coll.FindOneAndUpdate(callCtx, filter, update, opts).Decode(&counter)
		cancel()
		if err == nil {
			return counter.Seq, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return 0, fmt.Errorf("failed to increment reference counter %s/%s: %w", villaID, date, err)
		}
		lastErr = err
	}
	return 0, fmt.Errorf("reference counter %s/%s kept colliding: %w", villaID, date, lastErr)
}
