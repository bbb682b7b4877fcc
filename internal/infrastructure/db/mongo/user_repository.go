package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/domain"
	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/ports"
)

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

// Create inserts a new user record keyed by the identity provider uid.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, u)
	return err
}

// UpdateFields applies a partial update to the record and stamps updated_at.
// An empty fields map still succeeds and only refreshes the timestamp.
func (r *UserRepository) UpdateFields(ctx context.Context, uid string, fields map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.E(domain.KindNotFound, "user not found")
	}
	return nil
}

// Delete removes the record in a single BulkWrite batch. The batch carries
// only this one deletion today; related records can join it later without
// changing the commit shape.
func (r *UserRepository) Delete(ctx context.Context, uid string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	models := []mongo.WriteModel{
		mongo.NewDeleteOneModel().SetFilter(bson.M{"_id": uid}),
	}

	_, err := r.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	return err
}

// List returns records ordered by first name ascending, applying equality
// filters for any supplied building id / role, capped at filter.Limit.
func (r *UserRepository) List(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.BuildingID != "" {
		query["building_id"] = filter.BuildingID
	}
	if filter.Role != "" {
		query["user_role"] = filter.Role
	}

	limit := int64(filter.Limit)
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "first_name", Value: 1}}).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []*domain.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// All streams every record through fn. Used by the statistics scan.
func (r *UserRepository) All(ctx context.Context, fn func(*domain.User) error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var u domain.User
		if err := cur.Decode(&u); err != nil {
			return err
		}
		if err := fn(&u); err != nil {
			return err
		}
	}
	return cur.Err()
}

// EnsureIndexes creates the indexes backing the listing filters and sort.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "first_name", Value: 1}}},
		{Keys: bson.D{{Key: "building_id", Value: 1}}},
		{Keys: bson.D{{Key: "user_role", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
