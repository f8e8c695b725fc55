package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"github.com/civicvote/voting-api/internal/core/domain"
)

// domainErrors pass through storeError untouched.
var domainErrors = []error{
	domain.ErrNotFound,
	domain.ErrValidation,
	domain.ErrAccountExists,
	domain.ErrAlreadyVoted,
	domain.ErrElectionClosed,
}

// storeError classifies driver failures into the domain taxonomy:
// deadlines become ErrTimeout, network and server-selection failures become
// ErrUnavailable. Anything else is wrapped with op.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, de := range domainErrors {
		if errors.Is(err, de) {
			return err
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err):
		return fmt.Errorf("%s: %w: %v", op, domain.ErrTimeout, err)
	case mongo.IsNetworkError(err), errors.Is(err, topology.ErrServerSelectionTimeout):
		return fmt.Errorf("%s: %w: %v", op, domain.ErrUnavailable, err)
	}
	var sse topology.ServerSelectionError
	if errors.As(err, &sse) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// objectID parses a hex id, reporting malformed input as a validation error.
func objectID(kind, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, domain.Invalid("malformed %s id %q", kind, hex)
	}
	return id, nil
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}
