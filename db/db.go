package db

import (
	"context"
	"log"
	"os"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection           *mongo.Collection
	ShopsCollection          *mongo.Collection
	ItemsCollection          *mongo.Collection
	ReviewsCollection        *mongo.Collection
	ReportsCollection        *mongo.Collection
	ModerationLogsCollection *mongo.Collection
	CartCollection           *mongo.Collection
	Client                   *mongo.Client
)

// Initialize MongoDB connection
func init() {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("regiobon")
	UserCollection = database.Collection("users")
	ShopsCollection = database.Collection("shops")
	ItemsCollection = database.Collection("items")
	ReviewsCollection = database.Collection("reviews")
	ReportsCollection = database.Collection("reports")
	ModerationLogsCollection = database.Collection("moderationlogs")
	CartCollection = database.Collection("carts")
}
