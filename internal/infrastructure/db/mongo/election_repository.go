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

// ElectionRepository implements ports.ElectionRepository over the elections
// and candidates collections.
type ElectionRepository struct {
	client     *mongo.Client
	elections  *mongo.Collection
	candidates *mongo.Collection
	timeout    time.Duration
}

func NewElectionRepository(db *mongo.Database, timeout time.Duration) *ElectionRepository {
	return &ElectionRepository{
		client:     db.Client(),
		elections:  db.Collection(collectionElections),
		candidates: db.Collection(collectionCandidates),
		timeout:    opTimeout(timeout),
	}
}

type electionDoc struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	Name       string               `bson:"name"`
	IsActive   bool                 `bson:"is_active"`
	Candidates []primitive.ObjectID `bson:"candidates"`
	CreatedAt  time.Time            `bson:"created_at"`
	// TotalVotes is bumped by every recorded vote; the bump is what makes a
	// vote conflict with a concurrent close.
	TotalVotes int                  `bson:"total_votes"`
}

func (d electionDoc) toDomain() *domain.Election {
	return &domain.Election{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		IsActive:     d.IsActive,
		CandidateIDs: hexIDs(d.Candidates),
		CreatedAt:    d.CreatedAt,
	}
}

type candidateDoc struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	ElectionID primitive.ObjectID   `bson:"election_id"`
	Name       string               `bson:"name"`
	VoteCount  int                  `bson:"vote_count"`
	VotedBy    []primitive.ObjectID `bson:"voted_by"`
}

func (d candidateDoc) toDomain() *domain.Candidate {
	return &domain.Candidate{
		ID:         d.ID.Hex(),
		ElectionID: d.ElectionID.Hex(),
		Name:       d.Name,
		VoteCount:  d.VoteCount,
		VotedBy:    hexIDs(d.VotedBy),
	}
}

// CreateElection inserts an active election with no candidates.
func (r *ElectionRepository) CreateElection(ctx context.Context, name string) (*domain.Election, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := electionDoc{
		ID:         primitive.NewObjectID(),
		Name:       name,
		IsActive:   true,
		Candidates: []primitive.ObjectID{},
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := r.elections.InsertOne(ctx, doc); err != nil {
		return nil, storeError("insert election", err)
	}
	return doc.toDomain(), nil
}

// AddCandidate inserts the candidate and pushes its id onto the election in
// one transaction, so a missing election leaves no orphan candidate behind.
func (r *ElectionRepository) AddCandidate(ctx context.Context, electionID, name string) (*domain.Candidate, error) {
	eid, err := objectID("election", electionID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := candidateDoc{
		ID:         primitive.NewObjectID(),
		ElectionID: eid,
		Name:       name,
		VoteCount:  0,
		VotedBy:    []primitive.ObjectID{},
	}

	err = withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		if _, err := r.candidates.InsertOne(sc, doc); err != nil {
			return err
		}
		res, err := r.elections.UpdateOne(sc,
			bson.M{"_id": eid},
			bson.M{"$push": bson.M{"candidates": doc.ID}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return domain.ErrElectionNotFound
		}
		return nil
	})
	if err != nil {
		return nil, storeError("add candidate", err)
	}
	return doc.toDomain(), nil
}

// CloseElection sets is_active=false and returns the updated document.
func (r *ElectionRepository) CloseElection(ctx context.Context, electionID string) (*domain.Election, error) {
	eid, err := objectID("election", electionID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc electionDoc
	err = r.elections.FindOneAndUpdate(ctx,
		bson.M{"_id": eid},
		bson.M{"$set": bson.M{"is_active": false}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, storeError("close election", err)
	}
	return doc.toDomain(), nil
}

func (r *ElectionRepository) FindElection(ctx context.Context, id string) (*domain.Election, error) {
	eid, err := objectID("election", id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc electionDoc
	if err := r.elections.FindOne(ctx, bson.M{"_id": eid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, storeError("find election", err)
	}
	return doc.toDomain(), nil
}

func (r *ElectionRepository) FindCandidate(ctx context.Context, id string) (*domain.Candidate, error) {
	cid, err := objectID("candidate", id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc candidateDoc
	if err := r.candidates.FindOne(ctx, bson.M{"_id": cid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, storeError("find candidate", err)
	}
	return doc.toDomain(), nil
}

// ListWithCandidates loads every election in insertion order and resolves
// candidate refs with a single $in query, preserving list order.
func (r *ElectionRepository) ListWithCandidates(ctx context.Context) ([]domain.ElectionView, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.elections.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, storeError("list elections", err)
	}
	var elections []electionDoc
	if err := cur.All(ctx, &elections); err != nil {
		return nil, storeError("decode elections", err)
	}

	var refs []primitive.ObjectID
	for _, e := range elections {
		refs = append(refs, e.Candidates...)
	}

	byID := make(map[primitive.ObjectID]candidateDoc, len(refs))
	if len(refs) > 0 {
		cur, err := r.candidates.Find(ctx, bson.M{"_id": bson.M{"$in": refs}})
		if err != nil {
			return nil, storeError("list candidates", err)
		}
		var candidates []candidateDoc
		if err := cur.All(ctx, &candidates); err != nil {
			return nil, storeError("decode candidates", err)
		}
		for _, c := range candidates {
			byID[c.ID] = c
		}
	}

	views := make([]domain.ElectionView, 0, len(elections))
	for _, e := range elections {
		view := domain.ElectionView{Election: *e.toDomain(), Candidates: make([]domain.Candidate, 0, len(e.Candidates))}
		for _, ref := range e.Candidates {
			if c, ok := byID[ref]; ok {
				view.Candidates = append(view.Candidates, *c.toDomain())
			}
		}
		views = append(views, view)
	}
	return views, nil
}
