// Package mongostore implements save.Store backed by MongoDB, for
// deployments that want saves queryable/shareable across processes rather
// than living as local files (spec §6 "Store interface" is backend
// agnostic). Adapted from the teacher's mongo client wrapper pattern
// (features/memory/mongo/clients/mongo/client.go), ported to the
// mongo-driver/v2 API the module's go.mod declares.
package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"cultivation-world-simulator/save"
	"cultivation-world-simulator/simerr"
)

const (
	defaultCollection = "saves"
	defaultTimeout    = 5 * time.Second
)

// Options configures Store.
type Options struct {
	Client     *mongodriver.Client
	Database   string
	Collection string
	Timeout    time.Duration
}

// Store is a save.Store backed by a single Mongo collection, one document
// per save slot keyed by _id.
type Store struct {
	coll    *mongodriver.Collection
	mongo   *mongodriver.Client
	timeout time.Duration
}

// New returns a Store and ensures the updated_at index exists (slots are
// keyed by _id, which Mongo always indexes).
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Client == nil {
		return nil, errors.New("mongostore: client is required")
	}
	if opts.Database == "" {
		return nil, errors.New("mongostore: database name is required")
	}
	collection := opts.Collection
	if collection == "" {
		collection = defaultCollection
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	coll := opts.Client.Database(opts.Database).Collection(collection)
	ictx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := ensureIndexes(ictx, coll); err != nil {
		return nil, simerr.Wrap("mongostore: ensure indexes", err)
	}

	return &Store{coll: coll, mongo: opts.Client, timeout: timeout}, nil
}

// Ping verifies connectivity, matching the teacher client's health.Pinger
// surface so this can be wired into the same readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.mongo.Ping(ctx, readpref.Primary())
}

type saveDocument struct {
	ID        string       `bson:"_id"`
	Snapshot  save.Snapshot `bson:"snapshot"`
	UpdatedAt time.Time    `bson:"updated_at"`
}

// Save upserts id's snapshot.
func (s *Store) Save(ctx context.Context, id string, snap save.Snapshot) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"snapshot":   snap,
			"updated_at": time.Now().UTC(),
		},
	}
	_, err := s.coll.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return simerr.Wrap("mongostore: save", err)
	}
	return nil
}

// Load fetches id's snapshot.
func (s *Store) Load(ctx context.Context, id string) (save.Snapshot, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var doc saveDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return save.Snapshot{}, simerr.WithKindCause(simerr.ErrDataMissing, "mongostore: save not found: "+id, err)
		}
		return save.Snapshot{}, simerr.Wrap("mongostore: load", err)
	}
	return doc.Snapshot, nil
}

// List returns every stored save slot id.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, simerr.Wrap("mongostore: list", err)
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, simerr.Wrap("mongostore: decode list entry", err)
		}
		ids = append(ids, doc.ID)
	}
	return ids, cur.Err()
}

// Delete removes id's slot. Deleting a missing id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return simerr.Wrap("mongostore: delete", err)
	}
	return nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func ensureIndexes(ctx context.Context, coll *mongodriver.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetUnique(false),
	})
	return err
}

var _ save.Store = (*Store)(nil)
