package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/epiwatch/epiwatch-api/schema"
)

type ForecastTestSuite struct {
	suite.Suite
	connURI      string
	testDBName   string
	mongoClient  *mongo.Client
	testDatabase *mongo.Database
}

func NewForecastTestSuite(connURI, dbName string) *ForecastTestSuite {
	return &ForecastTestSuite{
		connURI:    connURI,
		testDBName: dbName,
	}
}

func (s *ForecastTestSuite) SetupSuite() {
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

func (s *ForecastTestSuite) CleanMongoDB() error {
	return s.testDatabase.Drop(context.Background())
}

func (s *ForecastTestSuite) TestUpsertForecastPointsOverwrites() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	run1 := []schema.ForecastPoint{
		{RegionID: "IN-MH", Date: "2024-01-02", Disease: "DENGUE", Model: schema.ForecastModelNaive, Horizon: 1, PredMean: 100, PredLower: 90, PredUpper: 110},
		{RegionID: "IN-MH", Date: "2024-01-03", Disease: "DENGUE", Model: schema.ForecastModelNaive, Horizon: 2, PredMean: 100, PredLower: 85, PredUpper: 115},
	}
	s.NoError(store.UpsertForecastPoints(run1))

	// a newer run for the same keys overwrites, it does not duplicate
	run2 := []schema.ForecastPoint{
		{RegionID: "IN-MH", Date: "2024-01-02", Disease: "DENGUE", Model: schema.ForecastModelNaive, Horizon: 1, PredMean: 120, PredLower: 108, PredUpper: 132},
		{RegionID: "IN-MH", Date: "2024-01-03", Disease: "DENGUE", Model: schema.ForecastModelNaive, Horizon: 2, PredMean: 120, PredLower: 102, PredUpper: 138},
	}
	s.NoError(store.UpsertForecastPoints(run2))

	count, err := s.testDatabase.Collection(schema.ForecastCollection).CountDocuments(
		context.Background(), bson.M{"region_id": "IN-MH", "disease": "DENGUE"})
	s.NoError(err)
	s.Equal(int64(2), count)

	points, err := store.ListForecasts("IN-MH", "DENGUE", schema.ForecastModelNaive)
	s.NoError(err)
	s.Len(points, 2)
	s.Equal(120.0, points[0].PredMean)
}

func (s *ForecastTestSuite) TestForecastModelAndDiseaseIsolation() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	points := []schema.ForecastPoint{
		{RegionID: "IN-KA", Date: "2024-02-02", Disease: "DENGUE", Model: schema.ForecastModelNaive, Horizon: 1, PredMean: 50, PredLower: 45, PredUpper: 55},
		{RegionID: "IN-KA", Date: "2024-02-02", Disease: "DENGUE", Model: schema.ForecastModelAR, Horizon: 1, PredMean: 52, PredLower: 48, PredUpper: 56},
		{RegionID: "IN-KA", Date: "2024-02-02", Disease: "COVID", Model: schema.ForecastModelNaive, Horizon: 1, PredMean: 900, PredLower: 810, PredUpper: 990},
	}
	s.NoError(store.UpsertForecastPoints(points))

	// same region and date: separate documents per model and per disease
	count, err := s.testDatabase.Collection(schema.ForecastCollection).CountDocuments(
		context.Background(), bson.M{"region_id": "IN-KA", "date": "2024-02-02"})
	s.NoError(err)
	s.Equal(int64(3), count)

	ar, err := store.ListForecasts("IN-KA", "DENGUE", schema.ForecastModelAR)
	s.NoError(err)
	s.Len(ar, 1)
	s.Equal(52.0, ar[0].PredMean)

	regions, err := store.ListForecastRegions("DENGUE")
	s.NoError(err)
	s.Contains(regions, "IN-KA")
}

func TestForecastTestSuite(t *testing.T) {
	suite.Run(t, NewForecastTestSuite("mongodb://127.0.0.1:27017/?compressors=disabled", "test-db"))
}
