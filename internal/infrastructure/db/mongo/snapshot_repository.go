package mongo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/franqnet/console-sync/internal/core/domain"
)

const (
	snapshotCollection = "mirror_snapshots"
	snapshotDocID      = "mirror"
)

// SnapshotRepository persists the mirror snapshot as a single document. The
// snapshot body is stored as an opaque JSON payload rather than a bson
// document: the decimal amounts round-trip through the JSON codecs the
// domain types already define, and the payload is only ever read back whole.
type SnapshotRepository struct {
	coll *mongo.Collection
}

// NewSnapshotRepository creates the repository on the mirror_snapshots
// collection.
func NewSnapshotRepository(db *mongo.Database) *SnapshotRepository {
	return &SnapshotRepository{coll: db.Collection(snapshotCollection)}
}

type snapshotDoc struct {
	ID      string           `bson:"_id"`
	SavedAt time.Time        `bson:"saved_at"`
	Payload primitive.Binary `bson:"payload"`
}

// Load returns the last saved snapshot, or (nil, nil) when none exists.
func (r *SnapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	var doc snapshotDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": snapshotDocID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(doc.Payload.Data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Save upserts the snapshot document, replacing the previous one.
func (r *SnapshotRepository) Save(ctx context.Context, snap *domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	doc := snapshotDoc{
		ID:      snapshotDocID,
		SavedAt: snap.SavedAt,
		Payload: primitive.Binary{Data: payload},
	}
	_, err = r.coll.ReplaceOne(ctx, bson.M{"_id": snapshotDocID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
