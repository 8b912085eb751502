package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/epiwatch/epiwatch-api/schema"
)

type RiskTestSuite struct {
	suite.Suite
	connURI      string
	testDBName   string
	mongoClient  *mongo.Client
	testDatabase *mongo.Database
}

func NewRiskTestSuite(connURI, dbName string) *RiskTestSuite {
	return &RiskTestSuite{
		connURI:    connURI,
		testDBName: dbName,
	}
}

func (s *RiskTestSuite) SetupSuite() {
	if s.connURI == "" || s.testDBName == "" {
		s.T().Fatal("invalid test suite configuration")
	}

	opts := options.Client().ApplyURI(s.connURI)
	mongoClient, err := mongo.NewClient(opts)
	if nil != err {
		s.T().Fatalf("create mongo client with error: %s", err)
	}

	if err = mongoClient.Connect(context.Background()); nil != err {
		s.T().Fatalf("connect mongo database with error: %s", err.Error())
	}

	s.mongoClient = mongoClient
	s.testDatabase = mongoClient.Database(s.testDBName)

	if err := s.CleanMongoDB(); err != nil {
		s.T().Fatal(err)
	}

	if err := schema.NewMongoDBIndexer(s.connURI, s.testDBName).IndexAll(); err != nil {
		s.T().Fatal(err)
	}
}

func (s *RiskTestSuite) CleanMongoDB() error {
	return s.testDatabase.Drop(context.Background())
}

func (s *RiskTestSuite) TestUpsertRiskScoreReplaces() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	score := schema.RiskScore{
		RegionID: "IN-MH",
		Date:     "2024-01-01",
		Disease:  "DENGUE",
		Score:    0.42,
		Level:    schema.RiskLevelMedium,
		Quality:  schema.RiskQualityOK,
		Drivers:  []schema.Driver{{Name: schema.DriverGrowth, Contribution: 0.3}},
	}
	s.NoError(store.UpsertRiskScore(score))

	// a later compute run replaces the prior value, never appends
	score.Score = 0.84
	score.Level = schema.RiskLevelHigh
	s.NoError(store.UpsertRiskScore(score))

	count, err := s.testDatabase.Collection(schema.RiskCollection).CountDocuments(
		context.Background(), score.Key().Filter())
	s.NoError(err)
	s.Equal(int64(1), count)

	stored, err := store.GetRiskScore(score.Key())
	s.NoError(err)
	s.Equal(0.84, stored.Score)
	s.Equal(schema.RiskLevelHigh, stored.Level)
	s.False(stored.UpdatedAt.IsZero())
}

func (s *RiskTestSuite) TestGetRiskScoreDiseaseIsolation() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	s.NoError(store.UpsertRiskScore(schema.RiskScore{
		RegionID: "IN-KA", Date: "2024-01-05", Disease: "DENGUE",
		Score: 0.9, Level: schema.RiskLevelHigh, Quality: schema.RiskQualityOK,
	}))
	s.NoError(store.UpsertRiskScore(schema.RiskScore{
		RegionID: "IN-KA", Date: "2024-01-05", Disease: "COVID",
		Score: 0.1, Level: schema.RiskLevelLow, Quality: schema.RiskQualityOK,
	}))

	dengue, err := store.GetRiskScore(schema.RiskKey{RegionID: "IN-KA", Date: "2024-01-05", Disease: "DENGUE"})
	s.NoError(err)
	s.Equal(0.9, dengue.Score)

	covid, err := store.GetRiskScore(schema.RiskKey{RegionID: "IN-KA", Date: "2024-01-05", Disease: "COVID"})
	s.NoError(err)
	s.Equal(0.1, covid.Score)

	_, err = store.GetRiskScore(schema.RiskKey{RegionID: "IN-KA", Date: "2024-01-05", Disease: "MALARIA"})
	s.ErrorIs(err, ErrRiskScoreNotFound)
}

func (s *RiskTestSuite) TestGetRiskScoreAverage() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	for date, value := range map[string]float64{
		"2024-02-01": 0.2,
		"2024-02-02": 0.4,
		"2024-02-03": 0.6,
	} {
		s.NoError(store.UpsertRiskScore(schema.RiskScore{
			RegionID: "IN-TN", Date: date, Disease: "DENGUE",
			Score: value, Level: schema.RiskLevelForScore(value), Quality: schema.RiskQualityOK,
		}))
	}

	avg, err := store.GetRiskScoreAverage("IN-TN", "DENGUE", "2024-02-01", "2024-02-03")
	s.NoError(err)
	s.InDelta(0.4, avg, 1e-9)

	_, err = store.GetRiskScoreAverage("IN-TN", "COVID", "2024-02-01", "2024-02-03")
	s.ErrorIs(err, ErrRiskScoreNotFound)
}

func (s *RiskTestSuite) TestTopRiskRegions() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	scores := []schema.RiskScore{
		{RegionID: "IN-MH", Date: "2024-03-01", Disease: "DENGUE", Score: 0.9, Level: schema.RiskLevelHigh, Quality: schema.RiskQualityOK},
		{RegionID: "IN-KA", Date: "2024-03-01", Disease: "DENGUE", Score: 0.7, Level: schema.RiskLevelHigh, Quality: schema.RiskQualityOK},
		{RegionID: "IN-TN", Date: "2024-03-01", Disease: "DENGUE", Score: 0.5, Level: schema.RiskLevelMedium, Quality: schema.RiskQualityOK},
		// zero-confidence sentinel must not appear among hotspots
		{RegionID: "IN-GA", Date: "2024-03-01", Disease: "DENGUE", Score: 0, Quality: schema.RiskQualityInsufficientData},
	}
	for _, sc := range scores {
		s.NoError(store.UpsertRiskScore(sc))
	}

	top, err := store.TopRiskRegions("2024-03-01", "DENGUE", 2)
	s.NoError(err)
	s.Len(top, 2)
	s.Equal("IN-MH", top[0].RegionID)
	s.Equal("IN-KA", top[1].RegionID)

	latest, err := store.LatestRiskDate("DENGUE")
	s.NoError(err)
	s.Equal("2024-03-01", latest)
}

func TestRiskTestSuite(t *testing.T) {
	suite.Run(t, NewRiskTestSuite("mongodb://127.0.0.1:27017/?compressors=disabled", "test-db"))
}
