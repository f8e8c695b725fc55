package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civicvote/voting-api/internal/core/domain"
)

// IdentityRepository reads the pre-seeded national-ID registry.
type IdentityRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewIdentityRepository(db *mongo.Database, timeout time.Duration) *IdentityRepository {
	return &IdentityRepository{col: db.Collection(collectionIdentities), timeout: opTimeout(timeout)}
}

type identityDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	NationalID string             `bson:"national_id"`
	IsValid    bool               `bson:"is_valid"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (d identityDoc) toDomain() *domain.Identity {
	return &domain.Identity{
		ID:               d.ID.Hex(),
		NationalIDNumber: d.NationalID,
		IsValid:          d.IsValid,
		CreatedAt:        d.CreatedAt,
	}
}

func (r *IdentityRepository) FindByNationalID(ctx context.Context, nationalID string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc identityDoc
	if err := r.col.FindOne(ctx, bson.M{"national_id": nationalID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, storeError("find identity", err)
	}
	return doc.toDomain(), nil
}

// Upsert creates the identity or updates its validity flag. Used by the
// seeding tool only.
func (r *IdentityRepository) Upsert(ctx context.Context, nationalID string, valid bool) (*domain.Identity, error) {
	if err := domain.ValidateNationalID(nationalID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	update := bson.M{
		"$set":         bson.M{"is_valid": valid},
		"$setOnInsert": bson.M{"national_id": nationalID, "created_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc identityDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"national_id": nationalID}, update, opts).Decode(&doc); err != nil {
		return nil, storeError("upsert identity", err)
	}
	return doc.toDomain(), nil
}
