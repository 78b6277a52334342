package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/certificates"
)

// MongoRepo implements a MongoDB-backed certificate store. Asset ids are
// unique across the whole collection, not per owner.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "assetId", Value: 1}}, Options: options.Index().SetUnique(true)}
	col.Indexes().CreateOne(context.Background(), idxModel)
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Create(ctx context.Context, c *certificates.Certificate) error {
	if _, err := m.col.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return certificates.ErrDuplicateAsset
		}
		return err
	}
	return nil
}

func (m *MongoRepo) GetByAsset(ctx context.Context, assetID string) (*certificates.Certificate, error) {
	var c certificates.Certificate
	if err := m.col.FindOne(ctx, bson.M{"assetId": assetID}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (m *MongoRepo) GetOwnedByAsset(ctx context.Context, ownerID, assetID string) (*certificates.Certificate, error) {
	var c certificates.Certificate
	if err := m.col.FindOne(ctx, bson.M{"assetId": assetID, "ownerId": ownerID}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (m *MongoRepo) ListByOwner(ctx context.Context, ownerID string) ([]*certificates.Certificate, error) {
	return m.list(ctx, bson.M{"ownerId": ownerID})
}

func (m *MongoRepo) ListAll(ctx context.Context) ([]*certificates.Certificate, error) {
	return m.list(ctx, bson.M{})
}

func (m *MongoRepo) list(ctx context.Context, filter bson.M) ([]*certificates.Certificate, error) {
	// creation order keeps derived listings deterministic
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*certificates.Certificate{}
	for cur.Next(ctx) {
		var c certificates.Certificate
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, cur.Err()
}

func (m *MongoRepo) SetDocumentKey(ctx context.Context, assetID, key string) error {
	set := bson.M{"documentKey": key, "updatedAt": time.Now().UTC()}
	res, err := m.col.UpdateOne(ctx, bson.M{"assetId": assetID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return certificates.ErrNotFound
	}
	return nil
}

func (m *MongoRepo) DeleteOwnedByAsset(ctx context.Context, ownerID, assetID string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"assetId": assetID, "ownerId": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return certificates.ErrNotFound
	}
	return nil
}
