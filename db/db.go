package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"bazaar/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection     *mongo.Collection
	CategoryCollection *mongo.Collection
	ProductCollection  *mongo.Collection
	OrderCollection    *mongo.Collection
	Client             *mongo.Client
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// Connect establishes the MongoDB connection and wires the named
// collections. It retries the initial ping with a fixed backoff; the
// retry loop governs startup only, never per-request behavior.
func Connect(cfg *config.Config) error {
	clientOptions := options.Client().ApplyURI(cfg.MongoURI)

	client, err := mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}

	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = client.Ping(ctx, nil)
		cancel()
		if err == nil {
			break
		}
		if attempt >= connectAttempts {
			return fmt.Errorf("mongo unreachable after %d attempts: %w", attempt, err)
		}
		log.Printf("MongoDB not ready (attempt %d/%d): %v", attempt, connectAttempts, err)
		time.Sleep(connectBackoff)
	}

	Client = client
	database := client.Database(cfg.MongoDB)
	UserCollection = database.Collection("users")
	CategoryCollection = database.Collection("categories")
	ProductCollection = database.Collection("products")
	OrderCollection = database.Collection("orders")

	return ensureIndexes(database)
}

// ensureIndexes creates the unique indexes the handlers rely on to
// surface duplicates as distinguishable errors.
func ensureIndexes(database *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := database.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	_, err = database.Collection("categories").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("categories name index: %w", err)
	}
	return nil
}
