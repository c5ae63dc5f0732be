package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/transitions/pkg/statestore"
)

// document is the stored form of a state record. The key string is the _id; the key
// parts are kept as fields so they can be indexed and queried.
type document struct {
	ID        string    `bson:"_id"`
	Type      string    `bson:"owner_type"`
	OwnerID   string    `bson:"owner_id"`
	Machine   string    `bson:"machine"`
	State     string    `bson:"state"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Store keeps one document per state key in a MongoDB collection.
type Store struct {
	coll  *mongo.Collection
	clock clock.Clock
}

var _ statestore.Store = (*Store)(nil)

type Option func(*Store)

func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

func New(coll *mongo.Collection, opts ...Option) *Store {
	s := &Store{coll: coll, clock: clock.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromClient uses the database and collection named in cfg.
func NewFromClient(client *mongo.Client, cfg Config, opts ...Option) *Store {
	return New(client.Database(cfg.Database).Collection(cfg.Collection), opts...)
}

func (s *Store) Load(ctx context.Context, key statestore.Key) (statestore.Record, error) {
	if err := key.Validate(); err != nil {
		return statestore.Record{}, err
	}
	var doc document
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: key.String()}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return statestore.Record{}, statestore.ErrNotFound
	}
	if err != nil {
		return statestore.Record{}, fmt.Errorf("load %s: %w", key, err)
	}
	return statestore.Record{State: doc.State, UpdatedAt: doc.UpdatedAt}, nil
}

func (s *Store) Save(ctx context.Context, key statestore.Key, state string) error {
	if err := key.Validate(); err != nil {
		return err
	}
	doc := document{
		ID:        key.String(),
		Type:      key.Type,
		OwnerID:   key.ID,
		Machine:   key.Machine,
		State:     state,
		UpdatedAt: s.clock.Now().UTC(),
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: doc.ID}},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key statestore.Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: key.String()}}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
