package repositories

import (
	"chatbot/contract"
	"chatbot/domain"
	"context"
	"fmt"
	"net/url"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const DefaultMongoDatabase = "whatsapp-api"

var _ contract.SessionStore = (*MongoSessionStore)(nil)

// MongoSessionStore keeps each collection as a MongoDB collection of
// {filename, data} documents.
type MongoSessionStore struct {
	client   *mongo.Client
	database *mongo.Database
}

// MongoURI builds an Atlas style SRV connection string.
func MongoURI(username, password, endpoint string) string {
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(username), url.QueryEscape(password), endpoint)
}

func NewMongoSessionStore(ctx context.Context, uri, database string) (*MongoSessionStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}
	return &MongoSessionStore{client: client, database: client.Database(database)}, nil
}

func (s *MongoSessionStore) Drop(ctx context.Context, collection string) error {
	return s.database.Collection(collection).Drop(ctx)
}

func (s *MongoSessionStore) InsertMany(ctx context.Context, collection string, records []domain.SessionRecord) error {
	if len(records) == 0 {
		return nil
	}
	documents := make([]any, 0, len(records))
	for _, record := range records {
		documents = append(documents, record)
	}
	_, err := s.database.Collection(collection).InsertMany(ctx, documents)
	return err
}

func (s *MongoSessionStore) Find(ctx context.Context, collection string) ([]domain.SessionRecord, error) {
	cursor, err := s.database.Collection(collection).Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "filename", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var records []domain.SessionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *MongoSessionStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
