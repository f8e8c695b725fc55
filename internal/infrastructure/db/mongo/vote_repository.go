package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civicvote/voting-api/internal/core/domain"
	"github.com/civicvote/voting-api/internal/core/ports"
)

// VoteRepository implements ports.VoteRepository and ports.AuditRepository.
type VoteRepository struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

// NewVoteRepository creates a new VoteRepository.
func NewVoteRepository(db *mongo.Database, timeout time.Duration) *VoteRepository {
	return &VoteRepository{client: db.Client(), db: db, timeout: opTimeout(timeout)}
}

var (
	_ ports.VoteRepository  = (*VoteRepository)(nil)
	_ ports.AuditRepository = (*VoteRepository)(nil)
)

// RecordVote runs the eligibility re-check and both writes in one
// transaction. Each write is conditional on the (account, election) pair not
// being recorded yet, so a retried or concurrent duplicate matches nothing and
// aborts the whole transaction.
func (r *VoteRepository) RecordVote(ctx context.Context, b domain.Ballot) error {
	accountID, err := objectID("account", b.AccountID)
	if err != nil {
		return err
	}
	electionID, err := objectID("election", b.ElectionID)
	if err != nil {
		return err
	}
	candidateID, err := objectID("candidate", b.CandidateID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	elections := r.db.Collection(collectionElections)
	accounts := r.db.Collection(collectionAccounts)
	candidates := r.db.Collection(collectionCandidates)

	err = withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		// 1. Election must still be open. This is a write, not a read, so a
		// concurrent CloseElection conflicts with the transaction and the
		// retry observes is_active=false.
		res, err := elections.UpdateOne(sc,
			bson.M{"_id": electionID, "is_active": true},
			bson.M{"$inc": bson.M{"total_votes": 1}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			n, err := elections.CountDocuments(sc, bson.M{"_id": electionID})
			if err != nil {
				return err
			}
			if n == 0 {
				return domain.ErrElectionNotFound
			}
			return domain.ErrElectionClosed
		}

		// 2. Account appends the election only if it is not there yet.
		res, err = accounts.UpdateOne(sc,
			bson.M{"_id": accountID, "voted_elections": bson.M{"$ne": electionID}},
			bson.M{"$push": bson.M{"voted_elections": electionID}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return missOrDuplicate(sc, accounts, bson.M{"_id": accountID}, domain.ErrAccountNotFound)
		}

		// 3. Candidate increments only if it belongs to the election and has
		// not counted this account.
		res, err = candidates.UpdateOne(sc,
			bson.M{"_id": candidateID, "election_id": electionID, "voted_by": bson.M{"$ne": accountID}},
			bson.M{
				"$inc":  bson.M{"vote_count": 1},
				"$push": bson.M{"voted_by": accountID},
			},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			if err := missOrDuplicate(sc, candidates, bson.M{"_id": candidateID}, domain.ErrCandidateNotFound); !errors.Is(err, domain.ErrAlreadyVoted) {
				return err
			}
			return missOrDuplicate(sc, candidates, bson.M{"_id": candidateID, "election_id": electionID}, domain.ErrCandidateNotInElection)
		}
		return nil
	})
	return storeError("record vote", err)
}

// missOrDuplicate tells a document missing from filter apart from one whose
// vote condition already holds (a duplicate vote).
func missOrDuplicate(sc mongo.SessionContext, col *mongo.Collection, filter bson.M, notFound error) error {
	n, err := col.CountDocuments(sc, filter)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return domain.ErrAlreadyVoted
}

// InsertVoteEvent appends a vote to the vote_events audit collection.
func (r *VoteRepository) InsertVoteEvent(ctx context.Context, event *domain.VoteEvent) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := bson.M{
		"account_id":   event.AccountID,
		"election_id":  event.ElectionID,
		"candidate_id": event.CandidateID,
		"cast_at":      event.CastAt.UTC(),
	}
	if event.RequestID != "" {
		doc["request_id"] = event.RequestID
	}

	_, err := r.db.Collection(collectionVoteEvents).InsertOne(ctx, doc)
	return storeError("insert vote event", err)
}
