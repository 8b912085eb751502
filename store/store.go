package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	mongoLogPrefix = "mongo"
	defaultTimeout = 5 * time.Second
)

var (
	// ErrInsufficientData is returned when a case window holds no records.
	// Callers degrade to a zero-confidence score or a naive forecast
	// instead of treating this as fatal.
	ErrInsufficientData = fmt.Errorf("no case records in window")

	// ErrIdentityConflict surfaces a duplicate-key violation on an
	// identity index. It should be unreachable with correct upsert keys;
	// if it appears, a write path bypassed the identity-key construction.
	ErrIdentityConflict = fmt.Errorf("identity key conflict")

	ErrRiskScoreNotFound = fmt.Errorf("risk score not found")
)

// EpidemicStore is the persistence surface the pipeline works against.
type EpidemicStore interface {
	Region
	Case
	Risk
	Alert
	Forecast
	Ping() error
}

type mongoDB struct {
	client   *mongo.Client
	database string
}

func NewMongoStore(client *mongo.Client, database string) EpidemicStore {
	return &mongoDB{
		client:   client,
		database: database,
	}
}

func (m *mongoDB) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return m.client.Ping(ctx, nil)
}

// wrapWriteError maps duplicate-key violations on identity indexes to
// ErrIdentityConflict so callers can treat them as correctness bugs
// rather than transient storage failures.
func wrapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", ErrIdentityConflict, err)
	}
	return err
}
