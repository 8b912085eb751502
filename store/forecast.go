package store

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/epiwatch/epiwatch-api/schema"
)

type Forecast interface {
	UpsertForecastPoints(points []schema.ForecastPoint) error
	ListForecasts(regionID, disease, model string) ([]schema.ForecastPoint, error)
	ListForecastRegions(disease string) ([]string, error)
}

// UpsertForecastPoints writes one forecast run's points. A newer run for
// the same (region, forecast date, disease, model) key overwrites the
// prior point; it never duplicates.
func (m *mongoDB) UpsertForecastPoints(points []schema.ForecastPoint) error {
	c := m.client.Database(m.database).Collection(schema.ForecastCollection)
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	for _, p := range points {
		key := p.Key()
		if err := key.Validate(); err != nil {
			return err
		}

		_, err := c.UpdateOne(ctx, key.Filter(), bson.M{"$set": p}, options.Update().SetUpsert(true))
		if err != nil {
			return wrapWriteError(err)
		}
	}

	log.WithFields(log.Fields{
		"prefix": mongoLogPrefix,
		"points": len(points),
	}).Debug("upsert forecast points")

	return nil
}

// ListForecasts returns stored forecast points ascending by date. Region
// and model narrow the query when non-empty; disease is always required.
func (m *mongoDB) ListForecasts(regionID, disease, model string) ([]schema.ForecastPoint, error) {
	c := m.client.Database(m.database).Collection(schema.ForecastCollection)
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{"disease": disease}
	if regionID != "" {
		filter["region_id"] = regionID
	}
	if model != "" {
		filter["model"] = model
	}
	opts := options.Find().SetSort(bson.D{{Key: "region_id", Value: 1}, {Key: "date", Value: 1}})
	cursor, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var points []schema.ForecastPoint
	if err := cursor.All(ctx, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// ListForecastRegions returns the distinct regions holding forecasts for
// a disease. Used by the backtester to walk stored predictions.
func (m *mongoDB) ListForecastRegions(disease string) ([]string, error) {
	c := m.client.Database(m.database).Collection(schema.ForecastCollection)
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	values, err := c.Distinct(ctx, "region_id", bson.M{"disease": disease})
	if err != nil {
		return nil, err
	}

	regions := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			regions = append(regions, s)
		}
	}
	return regions, nil
}
