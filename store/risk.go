package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/epiwatch/epiwatch-api/schema"
)

type Risk interface {
	UpsertRiskScore(score schema.RiskScore) error
	GetRiskScore(key schema.RiskKey) (*schema.RiskScore, error)
	ListRiskScores(date, disease string) ([]schema.RiskScore, error)
	LatestRiskDate(disease string) (string, error)
	GetRiskScoreAverage(regionID, disease, start, end string) (float64, error)
	TopRiskRegions(date, disease string, limit int64) ([]schema.RiskScore, error)
}

// UpsertRiskScore replaces the stored score for its identity key.
// Recomputation is last-write-wins; it never appends.
func (m *mongoDB) UpsertRiskScore(score schema.RiskScore) error {
	key := score.Key()
	if err := key.Validate(); err != nil {
		return err
	}

	c := m.client.Database(m.database).Collection(schema.RiskCollection)
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	score.UpdatedAt = time.Now().UTC()
	_, err := c.UpdateOne(ctx, key.Filter(), bson.M{"$set": score}, options.Update().SetUpsert(true))
	return wrapWriteError(err)
}

func (m *mongoDB) GetRiskScore(key schema.RiskKey) (*schema.RiskScore, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	c := m.client.Database(m.database).Collection(schema.RiskCollection)
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var score schema.RiskScore
	err := c.FindOne(ctx, key.Filter()).Decode(&score)
	if err == mongo.ErrNoDocuments {
		return nil, ErrRiskScoreNotFound
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}

// ListRiskScores returns all scores for a date, highest risk first. An
// empty disease returns the superset across diseases.
func (m *mongoDB) ListRiskScores(date, disease string) ([]schema.RiskScore, error) {
	c := m.client.Database(m.database).Collection(schema.RiskCollection)
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

	var scores []schema.RiskScore
	if err := cursor.All(ctx, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func (m *mongoDB) LatestRiskDate(disease string) (string, error) {
	c := m.client.Database(m.database).Collection(schema.RiskCollection)
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if disease != "" {
		filter["disease"] = disease
	}

	var score schema.RiskScore
	opts := options.FindOne().SetSort(bson.M{"date": -1})
	err := c.FindOne(ctx, filter, opts).Decode(&score)
	if err == mongo.ErrNoDocuments {
		return "", ErrRiskScoreNotFound
	}
	if err != nil {
		return "", err
	}
	return score.Date, nil
}

// GetRiskScoreAverage aggregates the mean risk score for a region and
// disease over an inclusive date range.
func (m *mongoDB) GetRiskScoreAverage(regionID, disease, start, end string) (float64, error) {
	c := m.client.Database(m.database).Collection(schema.RiskCollection)
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		AggregationMatch(bson.M{
			"region_id": regionID,
			"disease":   disease,
			"date":      bson.M{"$gte": start, "$lte": end},
		}),
		AggregationGroup("$region_id", bson.D{
			{Key: "avg", Value: bson.M{"$avg": "$risk_score"}},
		}),
	}

	cursor, err := c.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	if !cursor.Next(ctx) {
		return 0, ErrRiskScoreNotFound
	}

	var result struct {
		Avg float64 `bson:"avg"`
	}
	if err := cursor.Decode(&result); err != nil {
		return 0, err
	}
	return result.Avg, nil
}

// TopRiskRegions returns the highest-risk regions for a date and disease.
func (m *mongoDB) TopRiskRegions(date, disease string, limit int64) ([]schema.RiskScore, error) {
	c := m.client.Database(m.database).Collection(schema.RiskCollection)
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		AggregationMatch(bson.M{"date": date, "disease": disease, "quality": schema.RiskQualityOK}),
		AggregationSort(bson.M{"risk_score": -1}),
		AggregationLimit(limit),
	}

	cursor, err := c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var scores []schema.RiskScore
	if err := cursor.All(ctx, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}
