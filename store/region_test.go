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

type RegionTestSuite struct {
	suite.Suite
	connURI      string
	testDBName   string
	mongoClient  *mongo.Client
	testDatabase *mongo.Database
}

func NewRegionTestSuite(connURI, dbName string) *RegionTestSuite {
	return &RegionTestSuite{
		connURI:    connURI,
		testDBName: dbName,
	}
}

func (s *RegionTestSuite) SetupSuite() {
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

func (s *RegionTestSuite) CleanMongoDB() error {
	return s.testDatabase.Drop(context.Background())
}

func (s *RegionTestSuite) TestAgnosticAndOverlayCoexist() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	inserted, err := store.UpsertRegions([]schema.Region{
		{ID: "IN-MH", Name: "Maharashtra", Disease: schema.DiseaseAgnostic, ClimateZone: "west", Population: 112374333},
		{ID: "IN-MH", Name: "Maharashtra (dengue surveillance)", Disease: "DENGUE", ClimateZone: "west"},
		{ID: "IN-KA", Name: "Karnataka", Disease: schema.DiseaseAgnostic, ClimateZone: "south"},
	})
	s.NoError(err)
	s.Equal(3, inserted)

	// the overlay write must not merge into the agnostic record
	count, err := s.testDatabase.Collection(schema.RegionCollection).CountDocuments(
		context.Background(), bson.M{"region_id": "IN-MH"})
	s.NoError(err)
	s.Equal(int64(2), count)

	// disease-specific listing: overlay shadows the agnostic record
	regions, err := store.ListRegions("DENGUE")
	s.NoError(err)
	s.Len(regions, 2)
	byID := map[string]schema.Region{}
	for _, r := range regions {
		byID[r.ID] = r
	}
	s.Equal("DENGUE", byID["IN-MH"].Disease)
	s.Equal(schema.DiseaseAgnostic, byID["IN-KA"].Disease)

	// omitting disease returns the full superset
	regions, err = store.ListRegions("")
	s.NoError(err)
	s.Len(regions, 3)
}

func (s *RegionTestSuite) TestUpsertRegionDefaultsToAgnostic() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	_, err := store.UpsertRegions([]schema.Region{{ID: "IN-TN", Name: "Tamil Nadu"}})
	s.NoError(err)

	var stored schema.Region
	err = s.testDatabase.Collection(schema.RegionCollection).FindOne(
		context.Background(), bson.M{"region_id": "IN-TN"}).Decode(&stored)
	s.NoError(err)
	s.Equal(schema.DiseaseAgnostic, stored.Disease)
}

func TestRegionTestSuite(t *testing.T) {
	suite.Run(t, NewRegionTestSuite("mongodb://127.0.0.1:27017/?compressors=disabled", "test-db"))
}
