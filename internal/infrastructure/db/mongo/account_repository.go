package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civicvote/voting-api/internal/core/domain"
)

type AccountRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewAccountRepository(db *mongo.Database, timeout time.Duration) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts), timeout: opTimeout(timeout)}
}

type accountDoc struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty"`
	IdentityID     primitive.ObjectID   `bson:"identity_id"`
	PasswordHash   string               `bson:"password_hash"`
	Role           string               `bson:"role"`
	VotedElections []primitive.ObjectID `bson:"voted_elections"`
	CreatedAt      time.Time            `bson:"created_at"`
}

func (d accountDoc) toDomain() *domain.Account {
	return &domain.Account{
		ID:             d.ID.Hex(),
		IdentityID:     d.IdentityID.Hex(),
		PasswordHash:   d.PasswordHash,
		Role:           domain.Role(d.Role),
		VotedElections: hexIDs(d.VotedElections),
		CreatedAt:      d.CreatedAt,
	}
}

// Create inserts the account. The unique index on identity_id turns a
// concurrent second registration into domain.ErrAccountExists.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	identityID, err := objectID("identity", account.IdentityID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := accountDoc{
		ID:             primitive.NewObjectID(),
		IdentityID:     identityID,
		PasswordHash:   account.PasswordHash,
		Role:           account.Role.String(),
		VotedElections: []primitive.ObjectID{},
		CreatedAt:      account.CreatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, storeError("insert account", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) FindByIdentity(ctx context.Context, identityID string) (*domain.Account, error) {
	oid, err := objectID("identity", identityID)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"identity_id": oid})
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := objectID("account", id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc accountDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storeError("find account", err)
	}
	return doc.toDomain(), nil
}
