package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Totarae/shortener/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoCollection - коллекция сопоставлений, _id документа совпадает с идентификатором.
const MongoCollection = "shortens"

// MongoRepository хранит сопоставления в MongoDB.
type MongoRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoRepository создаёт репозиторий поверх базы database.
func NewMongoRepository(client *mongo.Client, database string) *MongoRepository {
	return &MongoRepository{
		client:     client,
		collection: client.Database(database).Collection(MongoCollection),
	}
}

// Insert вставляет документ; уникальность _id обеспечивает сам сервер.
func (r *MongoRepository) Insert(ctx context.Context, m model.Mapping) error {
	if _, err := r.collection.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrDuplicateID
		}
		return fmt.Errorf("mongo insert: %w", err)
	}
	return nil
}

func (r *MongoRepository) Get(ctx context.Context, id string) (string, error) {
	var m model.Mapping
	err := r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("mongo find: %w", err)
	}
	return m.URL, nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("mongo count: %w", err)
	}
	return n, nil
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
