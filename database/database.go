package database

import (
	"context"
	"fmt"
	"log"
	"skillswap/config"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	// MongoClient is the shared MongoDB client instance
	MongoClient *mongo.Client

	// Collections used by the application
	UsersCollection    *mongo.Collection
	SkillsCollection   *mongo.Collection
	MatchesCollection  *mongo.Collection
	RequestsCollection *mongo.Collection
	MessagesCollection *mongo.Collection
)

// InitDB initializes the MongoDB connection and collection handles
func InitDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(config.MongoURI).
		SetMaxPoolSize(50).
		SetConnectTimeout(10 * time.Second)

	log.Printf("🔌 Connecting to MongoDB at %s...", config.MongoURI)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Test the connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	MongoClient = client
	db := client.Database(config.MongoDatabase)

	UsersCollection = db.Collection("users")
	SkillsCollection = db.Collection("skills")
	MatchesCollection = db.Collection("matches")
	RequestsCollection = db.Collection("requests")
	MessagesCollection = db.Collection("messages")

	if err := ensureIndexes(ctx, db); err != nil {
		log.Printf("⚠️ Failed to ensure indexes: %v", err)
	}

	log.Printf("✅ MongoDB initialized successfully")
	log.Printf("📊 Connected to database: %s", config.MongoDatabase)

	return nil
}

// ensureIndexes creates the indexes the matching and messaging queries rely on.
// The (user1, user2) unique index backs the unordered-pair upsert.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("matches").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user1", Value: 1}, {Key: "user2", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("messages").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "matchId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("skills").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "type", Value: 1}},
	})
	return err
}

// CloseAllConnections closes the MongoDB connection
func CloseAllConnections() {
	if MongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := MongoClient.Disconnect(ctx); err != nil {
			log.Printf("⚠️ Error closing MongoDB connection: %v", err)
			return
		}
		log.Println("✅ MongoDB connection closed")
	}
}

// HealthCheck performs a health check on the database
func HealthCheck() error {
	if MongoClient == nil {
		return fmt.Errorf("MongoDB client is not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return MongoClient.Ping(ctx, readpref.Primary())
}
