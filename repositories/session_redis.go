package repositories

import (
	"chatbot/contract"
	"chatbot/domain"
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

var _ contract.SessionStore = (*RedisSessionStore)(nil)

// RedisSessionStore keeps each collection in one hash, filename -> content.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisClient parses url and checks the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func hashKey(collection string) string {
	return "session:" + collection
}

func (s *RedisSessionStore) Drop(ctx context.Context, collection string) error {
	return s.client.Del(ctx, hashKey(collection)).Err()
}

func (s *RedisSessionStore) InsertMany(ctx context.Context, collection string, records []domain.SessionRecord) error {
	if len(records) == 0 {
		return nil
	}
	values := make(map[string]any, len(records))
	for _, record := range records {
		values[record.Filename] = record.ContentBase64
	}
	return s.client.HSet(ctx, hashKey(collection), values).Err()
}

func (s *RedisSessionStore) Find(ctx context.Context, collection string) ([]domain.SessionRecord, error) {
	values, err := s.client.HGetAll(ctx, hashKey(collection)).Result()
	if err != nil {
		return nil, err
	}
	records := make([]domain.SessionRecord, 0, len(values))
	for filename, content := range values {
		records = append(records, domain.SessionRecord{Filename: filename, ContentBase64: content})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Filename < records[j].Filename })
	return records, nil
}

func (s *RedisSessionStore) Close(_ context.Context) error {
	return s.client.Close()
}
