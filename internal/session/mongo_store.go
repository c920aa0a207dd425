package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps sessions in a MongoDB collection. A TTL index on expires_at lets the
// server drop expired documents; Get also filters on expiry since the TTL monitor lags.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore creates a MongoStore on the "sessions" collection and ensures its TTL index
func NewMongoStore(ctx context.Context, db *mongo.Database) (*MongoStore, error) {
	collection := db.Collection("sessions")
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return nil, errors.Wrap(err, "create sessions ttl index")
	}
	return &MongoStore{collection: collection}, nil
}

var _ Store = (*MongoStore)(nil)

func (s *MongoStore) Get(ctx context.Context, id string) (*Session, error) {
	var sess Session
	filter := bson.M{"_id": id, "expires_at": bson.M{"$gt": time.Now()}}
	if err := s.collection.FindOne(ctx, filter).Decode(&sess); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get session")
	}
	return &sess, nil
}

func (s *MongoStore) Set(ctx context.Context, sess *Session) error {
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": sess.ID}, sess, options.Replace().SetUpsert(true))
	return errors.Wrap(err, "set session")
}

func (s *MongoStore) Destroy(ctx context.Context, id string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	return errors.Wrap(err, "destroy session")
}

func (s *MongoStore) Prune(ctx context.Context) (int, error) {
	res, err := s.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": time.Now()}})
	if err != nil {
		return 0, errors.Wrap(err, "prune sessions")
	}
	return int(res.DeletedCount), nil
}

// Close is a no-op; the mongo client is owned by config.DB.
func (s *MongoStore) Close() error {
	return nil
}
