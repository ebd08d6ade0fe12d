package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements the Store interface for MongoDB
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	config Config
}

// NewMongoStore creates a new MongoDB store
func NewMongoStore(cfg Config) *MongoStore {
	return &MongoStore{config: cfg}
}

// Connect establishes a connection to MongoDB and verifies it with a ping
func (m *MongoStore) Connect(ctx context.Context) error {
	uri := m.config.MongoURI
	if uri == "" {
		uri = fmt.Sprintf("mongodb://%s:%s", m.config.Host, m.config.Port)
	}

	opts := options.Client().ApplyURI(uri)
	if m.config.User != "" && m.config.MongoURI == "" {
		opts.SetAuth(options.Credential{
			Username: m.config.User,
			Password: m.config.Password,
		})
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("%w: ping failed: %v", ErrConnection, err)
	}

	m.client = client
	m.db = client.Database(m.config.Database)
	return nil
}

// Close disconnects the client
func (m *MongoStore) Close() error {
	if m.client != nil {
		return m.client.Disconnect(context.Background())
	}
	return nil
}

// Ping checks the database connection
func (m *MongoStore) Ping(ctx context.Context) error {
	if m.client == nil {
		return ErrConnection
	}
	if err := m.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// FindByID decodes the document with _id = id
func (m *MongoStore) FindByID(ctx context.Context, collection, id string, out interface{}) error {
	if m.db == nil {
		return ErrConnection
	}

	err := m.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrQuery, err)
	}
	return nil
}

// Find decodes all documents matching q into out
func (m *MongoStore) Find(ctx context.Context, collection string, q Query, out interface{}) error {
	if m.db == nil {
		return ErrConnection
	}
	if err := validateQuery(q); err != nil {
		return err
	}

	opts := options.Find()
	if q.Sort != nil {
		dir := 1
		if q.Sort.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: mongoField(q.Sort.Field), Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := m.db.Collection(collection).Find(ctx, mongoFilter(q.Filter), opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQuery, err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("%w: %v", ErrQuery, err)
	}
	return nil
}

// Insert stores doc; the document's _id tag must carry id
func (m *MongoStore) Insert(ctx context.Context, collection, id string, doc interface{}) error {
	if m.db == nil {
		return ErrConnection
	}

	if _, err := m.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s:%s", ErrDuplicate, collection, id)
		}
		return fmt.Errorf("%w: %v", ErrQuery, err)
	}
	return nil
}

// UpdateFields applies a $set of fields to the document with _id = id
func (m *MongoStore) UpdateFields(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if m.db == nil {
		return ErrConnection
	}
	for k := range fields {
		if err := validateField(k); err != nil {
			return err
		}
	}

	result, err := m.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQuery, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of documents matching filter
func (m *MongoStore) Count(ctx context.Context, collection string, filter Filter) (int, error) {
	if m.db == nil {
		return 0, ErrConnection
	}
	if err := validateQuery(Query{Filter: filter}); err != nil {
		return 0, err
	}

	n, err := m.db.Collection(collection).CountDocuments(ctx, mongoFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	return int(n), nil
}

func mongoFilter(filter Filter) bson.M {
	out := bson.M{}
	for k, v := range filter {
		out[mongoField(k)] = v
	}
	return out
}

// mongoField maps the portable id field onto Mongo's primary key
func mongoField(name string) string {
	if name == "id" {
		return "_id"
	}
	return name
}
