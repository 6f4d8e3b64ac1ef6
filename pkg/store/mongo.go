package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/seesaw/pkg/balance"
	seesawerrors "github.com/matzehuels/seesaw/pkg/errors"
	"github.com/matzehuels/seesaw/pkg/simulation"
)

// MongoGateway stores one document per slot, keyed by the slot name.
type MongoGateway struct {
	client *mongo.Client
	coll   *mongo.Collection
	slot   string
	owned  bool
}

// stateDoc is the stored document shape.
type stateDoc struct {
	Slot      string      `bson:"_id"`
	Objects   []objectDoc `bson:"objects"`
	Angle     float64     `bson:"angle"`
	UpdatedAt time.Time   `bson:"updated_at"`
}

type objectDoc struct {
	ID       string  `bson:"id"`
	Weight   float64 `bson:"weight"`
	Distance float64 `bson:"distance"`
}

// NewMongoGateway connects to uri and uses database.collection for storage.
func NewMongoGateway(ctx context.Context, uri, database, collection, slot string) (*MongoGateway, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, seesawerrors.Wrap(seesawerrors.ErrCodePersistence, err, "connect mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, seesawerrors.Wrap(seesawerrors.ErrCodePersistence, err, "ping mongo")
	}
	g := NewMongoGatewayFromCollection(client.Database(database).Collection(collection), slot)
	g.client = client
	g.owned = true
	return g, nil
}

// NewMongoGatewayFromCollection uses an existing collection. Close does not
// disconnect the caller's client.
func NewMongoGatewayFromCollection(coll *mongo.Collection, slot string) *MongoGateway {
	return &MongoGateway{coll: coll, slot: slot}
}

// Save upserts the slot document. The store hooks see the BSON size.
func (g *MongoGateway) Save(ctx context.Context, s simulation.State) (err error) {
	start := time.Now()
	var raw bson.Raw
	defer func() { observeSave(ctx, g.Backend(), start, len(raw), err) }()

	raw, err = encodeDoc(g.slot, s)
	if err != nil {
		return seesawerrors.Wrap(seesawerrors.ErrCodePersistence, err, "encode slot %q", g.slot)
	}
	_, err = g.coll.ReplaceOne(ctx, bson.M{"_id": g.slot}, raw, options.Replace().SetUpsert(true))
	if err != nil {
		return seesawerrors.Wrap(seesawerrors.ErrCodePersistence, err, "save slot %q", g.slot)
	}
	return nil
}

// Load reads the slot document.
func (g *MongoGateway) Load(ctx context.Context) (s simulation.State, found bool, err error) {
	start := time.Now()
	defer func() { observeLoad(ctx, g.Backend(), start, found, err) }()

	var doc stateDoc
	err = g.coll.FindOne(ctx, bson.M{"_id": g.slot}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return simulation.Empty(), false, nil
	}
	if err != nil {
		return simulation.State{}, false, seesawerrors.Wrap(seesawerrors.ErrCodePersistence, err, "load slot %q", g.slot)
	}
	return fromDoc(doc), true, nil
}

// Clear deletes the slot document.
func (g *MongoGateway) Clear(ctx context.Context) error {
	if _, err := g.coll.DeleteOne(ctx, bson.M{"_id": g.slot}); err != nil {
		return seesawerrors.Wrap(seesawerrors.ErrCodePersistence, err, "clear slot %q", g.slot)
	}
	return nil
}

// Backend returns "mongo".
func (g *MongoGateway) Backend() string { return "mongo" }

// Close disconnects the client if the gateway created it.
func (g *MongoGateway) Close() error {
	if !g.owned || g.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}

func toDoc(slot string, s simulation.State) stateDoc {
	objs := make([]objectDoc, len(s.Objects))
	for i, o := range s.Objects {
		objs[i] = objectDoc{ID: o.ID, Weight: o.Weight, Distance: o.Distance}
	}
	return stateDoc{Slot: slot, Objects: objs, Angle: s.Angle, UpdatedAt: time.Now().UTC()}
}

// encodeDoc marshals the slot document as written to the collection.
func encodeDoc(slot string, s simulation.State) (bson.Raw, error) {
	data, err := bson.Marshal(toDoc(slot, s))
	return bson.Raw(data), err
}

func fromDoc(d stateDoc) simulation.State {
	objs := make([]balance.Object, len(d.Objects))
	for i, o := range d.Objects {
		objs[i] = balance.Object{ID: o.ID, Weight: o.Weight, Distance: o.Distance}
	}
	return simulation.State{Objects: objs, Angle: d.Angle}
}

// collectionName derives the collection from the namespace.
func collectionName(namespace string) string {
	if namespace == "" {
		return "states"
	}
	return identifier(namespace) + "_states"
}

var _ Store = (*MongoGateway)(nil)
