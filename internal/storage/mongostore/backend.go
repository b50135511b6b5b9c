// Package mongostore stores the shared roster document in MongoDB, one document
// per deployment.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alexanderramin/st8/internal/logger"
	"github.com/alexanderramin/st8/internal/storage"
)

const (
	// CollectionName holds the roster document.
	CollectionName = "agents"
	documentID     = "roster"
)

type record struct {
	ID        string                `bson:"_id"`
	Agents    []storage.RosterAgent `bson:"agents"`
	Metadata  map[string]any        `bson:"metadata"`
	UpdatedAt time.Time             `bson:"updatedAt"`
}

// Backend implements storage.RosterBackend. When the collection is empty
// and a seed backend is set, the seed document is copied in on first load.
type Backend struct {
	client *mongo.Client
	coll   *mongo.Collection
	seed   storage.RosterBackend
}

// Connect dials uri and selects database.
func Connect(ctx context.Context, uri, database string, seed storage.RosterBackend) (*Backend, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}
	return &Backend{
		client: client,
		coll:   client.Database(database).Collection(CollectionName),
		seed:   seed,
	}, nil
}

func (b *Backend) Load(ctx context.Context) (*storage.RosterDocument, bool, error) {
	var rec record
	err := b.coll.FindOne(ctx, bson.M{"_id": documentID}).Decode(&rec)
	switch {
	case err == nil:
		doc := &storage.RosterDocument{Agents: rec.Agents, Metadata: rec.Metadata}
		doc.Normalize()
		return doc, true, nil
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, false, fmt.Errorf("loading roster document: %w", err)
	}

	if b.seed == nil {
		return nil, false, nil
	}
	doc, ok, err := b.seed.Load(ctx)
	if err != nil || !ok {
		if err != nil {
			logger.Warn("roster seed unreadable", "err", err)
		}
		return nil, false, nil
	}
	if err := b.Save(ctx, doc); err != nil {
		return nil, false, err
	}
	logger.Info("roster seeded from data file", "agents", len(doc.Agents))
	doc.Normalize()
	return doc, true, nil
}

func (b *Backend) Save(ctx context.Context, doc *storage.RosterDocument) error {
	rec := record{
		ID:        documentID,
		Agents:    doc.Agents,
		Metadata:  doc.Metadata,
		UpdatedAt: time.Now().UTC(),
	}
	if rec.Agents == nil {
		rec.Agents = []storage.RosterAgent{}
	}
	_, err := b.coll.ReplaceOne(ctx, bson.M{"_id": documentID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("saving roster document: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (b *Backend) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}

var _ storage.RosterBackend = (*Backend)(nil)
