package moderation

import (
	"context"
	"time"

	"regiobon/db"
	"regiobon/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore backs the engine with the shared collections. Each method is a
// single-document operation; the engine's multi-document sequences are
// sequential on top of these, not transactional.
type MongoStore struct{}

func NewMongoStore() *MongoStore { return &MongoStore{} }

func (MongoStore) ReportByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	var report models.Report
	err := db.ReportsCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (MongoStore) SaveDecision(ctx context.Context, report *models.Report) error {
	_, err := db.ReportsCollection.UpdateOne(ctx,
		bson.M{"_id": report.ID},
		bson.M{"$set": bson.M{
			"status":     report.Status,
			"reviewedBy": report.ReviewedBy,
			"reviewedAt": report.ReviewedAt,
			"resolution": report.Resolution,
		}},
	)
	return err
}

func (MongoStore) ReviewByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	err := db.ReviewsCollection.FindOne(ctx, bson.M{"reviewid": id}).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (MongoStore) RemoveReview(ctx context.Context, reviewID string) error {
	_, err := db.ReviewsCollection.UpdateOne(ctx,
		bson.M{"reviewid": reviewID},
		bson.M{
			"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()},
			"$inc": bson.M{"warnings": 1},
		},
	)
	return err
}

func (MongoStore) ItemName(ctx context.Context, itemID string) (string, error) {
	var item models.Item
	err := db.ItemsCollection.FindOne(ctx, bson.M{"itemid": itemID}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return item.Name, nil
}

func (MongoStore) ShopByID(ctx context.Context, id string) (*models.Shop, error) {
	var shop models.Shop
	err := db.ShopsCollection.FindOne(ctx, bson.M{"shopid": id}).Decode(&shop)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (MongoStore) RemoveShop(ctx context.Context, shopID string) error {
	_, err := db.ShopsCollection.UpdateOne(ctx,
		bson.M{"shopid": shopID},
		bson.M{
			"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()},
			"$inc": bson.M{"warnings": 1},
		},
	)
	return err
}

func (MongoStore) IncShopWarnings(ctx context.Context, shopID string) error {
	_, err := db.ShopsCollection.UpdateOne(ctx,
		bson.M{"shopid": shopID},
		bson.M{"$inc": bson.M{"warnings": 1}},
	)
	return err
}

func (MongoStore) UserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (MongoStore) AppendWarning(ctx context.Context, userID string, warning models.Warning) error {
	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{
			"$push": bson.M{"warnings": warning},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	return err
}

func (MongoStore) DeactivateUser(ctx context.Context, userID string) error {
	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()}},
	)
	return err
}

func (MongoStore) DeactivateShopsByOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := db.ShopsCollection.UpdateMany(ctx,
		bson.M{"ownerid": ownerID, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (MongoStore) OwnerReportTotal(ctx context.Context, ownerID string) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ownerid": ownerID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$report_count"},
		}}},
	}
	cursor, err := db.ShopsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var out []struct {
		Total int `bson:"total"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}

func (MongoStore) InsertLog(ctx context.Context, entry *models.ModerationLog) error {
	res, err := db.ModerationLogsCollection.InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	entry.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}
