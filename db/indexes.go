package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the collections rely on. The unique
// report index is the backstop for the one-report-per-target rule: even if
// two submissions slip through nearly concurrently, MongoDB itself will
// prevent a duplicate.
func EnsureIndexes(ctx context.Context) error {
	_, err := ReportsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "reporter", Value: 1},
				{Key: "targetType", Value: 1},
				{Key: "targetId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "targetType", Value: 1}, {Key: "targetId", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = ModerationLogsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "admin", Value: 1}}},
		{Keys: bson.D{{Key: "action", Value: 1}}},
		{Keys: bson.D{{Key: "targetType", Value: 1}, {Key: "targetId", Value: 1}}},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	})
	if err != nil {
		return err
	}

	// One active review per (item, shopper); soft-deleted reviews don't count.
	_, err = ReviewsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "itemid", Value: 1}, {Key: "shopperid", Value: 1}},
		Options: options.Index().SetUnique(true).
			SetPartialFilterExpression(bson.M{"is_active": true}),
	})
	if err != nil {
		return err
	}

	_, err = ShopsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "ownerid", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = UserCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return err
	}

	_, err = CartCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
	})
	return err
}
