package reports

import (
	"context"

	"regiobon/apperr"
	"regiobon/db"
	"regiobon/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore backs Store and TargetStore with the shared collections.
type MongoStore struct{}

func NewMongoStore() *MongoStore { return &MongoStore{} }

func (MongoStore) HasDuplicate(ctx context.Context, reporter string, target models.TargetRef) (bool, error) {
	count, err := db.ReportsCollection.CountDocuments(ctx, bson.M{
		"reporter":   reporter,
		"targetType": target.Kind,
		"targetId":   target.ID,
	})
	return count > 0, err
}

func (MongoStore) Insert(ctx context.Context, report *models.Report) error {
	res, err := db.ReportsCollection.InsertOne(ctx, report)
	if err != nil {
		// The unique index catches near-concurrent duplicates the
		// HasDuplicate check raced past.
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("You have already reported this item")
		}
		return apperr.Internal("Failed to save report", err)
	}
	report.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (MongoStore) ByReporter(ctx context.Context, reporter string) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(100)
	cursor, err := db.ReportsCollection.Find(ctx, bson.M{"reporter": reporter}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var list []models.Report
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (MongoStore) Review(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	err := db.ReviewsCollection.FindOne(ctx, bson.M{"reviewid": id, "is_active": true}).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal("Failed to fetch review", err)
	}
	return &review, nil
}

func (MongoStore) Shop(ctx context.Context, id string) (*models.Shop, error) {
	var shop models.Shop
	err := db.ShopsCollection.FindOne(ctx, bson.M{"shopid": id, "is_active": true}).Decode(&shop)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal("Failed to fetch shop", err)
	}
	return &shop, nil
}

func (MongoStore) IncReportCount(ctx context.Context, target models.TargetRef) error {
	update := bson.M{"$inc": bson.M{"report_count": 1}}
	switch target.Kind {
	case models.TargetReview:
		_, err := db.ReviewsCollection.UpdateOne(ctx, bson.M{"reviewid": target.ID}, update)
		return err
	case models.TargetShop:
		_, err := db.ShopsCollection.UpdateOne(ctx, bson.M{"shopid": target.ID}, update)
		return err
	}
	return nil
}
