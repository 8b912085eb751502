package store

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/epiwatch/epiwatch-api/schema"
)

type Case interface {
	UpsertCaseRecords(records []schema.CaseRecord) (int, error)
	GetCaseRecord(key schema.CaseKey) (*schema.CaseRecord, error)
	GetCaseWindow(regionID, disease, asOf string, windowDays int) ([]schema.CaseRecord, error)
	GetCaseHistory(regionID, disease, asOf string, limit int) ([]schema.CaseRecord, error)
	LatestCaseDate(disease string) (string, error)
}

// UpsertCaseRecords writes a batch of daily case records. Re-ingesting an
// existing (region, date, disease) triple overwrites that triple's counts
// and nothing else. Returns the number of newly inserted documents.
func (m *mongoDB) UpsertCaseRecords(records []schema.CaseRecord) (int, error) {
	c := m.client.Database(m.database).Collection(schema.CaseCollection)
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	inserted := 0
	for _, r := range records {
		key := r.Key()
		if err := key.Validate(); err != nil {
			return inserted, err
		}

		update := bson.M{
			"$set": bson.M{
				"confirmed": r.Confirmed,
				"deaths":    r.Deaths,
				"recovered": r.Recovered,
			},
			"$setOnInsert": key.Filter(),
		}
		result, err := c.UpdateOne(ctx, key.Filter(), update, options.Update().SetUpsert(true))
		if err != nil {
			return inserted, wrapWriteError(err)
		}
		if result.UpsertedID != nil {
			inserted++
		}
	}

	log.WithFields(log.Fields{
		"prefix":   mongoLogPrefix,
		"records":  len(records),
		"inserted": inserted,
	}).Debug("upsert case records")

	return inserted, nil
}

func (m *mongoDB) GetCaseRecord(key schema.CaseKey) (*schema.CaseRecord, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	c := m.client.Database(m.database).Collection(schema.CaseCollection)
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var record schema.CaseRecord
	err := c.FindOne(ctx, key.Filter()).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetCaseWindow resolves the rolling window of case records for the
// windowDays preceding asOf (inclusive), ascending by date. Missing days
// are not synthesized; callers see the gaps. Returns ErrInsufficientData
// when the window is empty.
func (m *mongoDB) GetCaseWindow(regionID, disease, asOf string, windowDays int) ([]schema.CaseRecord, error) {
	asOfDay, err := time.Parse(schema.DateLayout, asOf)
	if err != nil {
		return nil, err
	}
	start := asOfDay.AddDate(0, 0, -windowDays).Format(schema.DateLayout)

	c := m.client.Database(m.database).Collection(schema.CaseCollection)
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{
		"region_id": regionID,
		"disease":   disease,
		"date":      bson.M{"$gt": start, "$lte": asOf},
	}
	opts := options.Find().SetSort(bson.M{"date": 1})
	cursor, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var records []schema.CaseRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrInsufficientData
	}
	return records, nil
}

// GetCaseHistory returns up to limit records at or before asOf, ascending
// by date. Used by the forecaster, which needs a longer lookback than the
// scoring window.
func (m *mongoDB) GetCaseHistory(regionID, disease, asOf string, limit int) ([]schema.CaseRecord, error) {
	c := m.client.Database(m.database).Collection(schema.CaseCollection)
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{
		"region_id": regionID,
		"disease":   disease,
		"date":      bson.M{"$lte": asOf},
	}
	opts := options.Find().SetSort(bson.M{"date": -1}).SetLimit(int64(limit))
	cursor, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var records []schema.CaseRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrInsufficientData
	}

	// Query sorts newest-first to apply the limit; callers want ascending.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// LatestCaseDate resolves the most recent ingested date for a disease,
// used when a compute pass is invoked without a target date.
func (m *mongoDB) LatestCaseDate(disease string) (string, error) {
	c := m.client.Database(m.database).Collection(schema.CaseCollection)
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var record schema.CaseRecord
	opts := options.FindOne().SetSort(bson.M{"date": -1})
	err := c.FindOne(ctx, bson.M{"disease": disease}, opts).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return "", ErrInsufficientData
	}
	if err != nil {
		return "", err
	}
	return record.Date, nil
}
