package store

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/epiwatch/epiwatch-api/schema"
)

type Alert interface {
	UpsertAlert(alert schema.Alert) (bool, error)
	ListAlerts(date, disease string) ([]schema.Alert, error)
	ListRegionAlerts(regionID, disease, start, end string) ([]schema.Alert, error)
}

// UpsertAlert persists an alert keyed by its full identity tuple. The
// boolean result reports whether a new document was created; rerunning
// generation for an already-alerted key updates in place and returns
// false, which is what keeps retried compute passes from spamming.
func (m *mongoDB) UpsertAlert(alert schema.Alert) (bool, error) {
	key := alert.Key()
	if err := key.Validate(); err != nil {
		return false, err
	}

	c := m.client.Database(m.database).Collection(schema.AlertCollection)
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"risk_score": alert.Score,
			"risk_level": alert.Level,
			"run_id":     alert.RunID,
		},
		"$setOnInsert": bson.M{
			"region_id":  alert.RegionID,
			"date":       alert.Date,
			"disease":    alert.Disease,
			"reason":     alert.Reason,
			"created_at": time.Now().UTC(),
		},
	}
	result, err := c.UpdateOne(ctx, key.Filter(), update, options.Update().SetUpsert(true))
	if err != nil {
		return false, wrapWriteError(err)
	}

	inserted := result.UpsertedID != nil
	log.WithFields(log.Fields{
		"prefix":    mongoLogPrefix,
		"region_id": alert.RegionID,
		"disease":   alert.Disease,
		"reason":    alert.Reason,
		"inserted":  inserted,
	}).Debug("upsert alert")

	return inserted, nil
}

// ListAlerts returns alerts for a date, highest score first. An empty
// disease returns the superset across diseases.
func (m *mongoDB) ListAlerts(date, disease string) ([]schema.Alert, error) {
	c := m.client.Database(m.database).Collection(schema.AlertCollection)
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{"date": date}
	if disease != "" {
		filter["disease"] = disease
	}
	opts := options.Find().SetSort(bson.M{"risk_score": -1})
	cursor, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var alerts []schema.Alert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// ListRegionAlerts returns one region's alerts over an inclusive date
// range, ascending by date.
func (m *mongoDB) ListRegionAlerts(regionID, disease, start, end string) ([]schema.Alert, error) {
	c := m.client.Database(m.database).Collection(schema.AlertCollection)
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{
		"region_id": regionID,
		"date":      bson.M{"$gte": start, "$lte": end},
	}
	if disease != "" {
		filter["disease"] = disease
	}
	opts := options.Find().SetSort(bson.M{"date": 1})
	cursor, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var alerts []schema.Alert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}
