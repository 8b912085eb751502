package schema

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDBIndexer creates the unique indexes that back the identity-key
// uniqueness constraints. A duplicate-key error on any of these indexes
// means an upsert was issued with an incomplete identity filter.
type MongoDBIndexer struct {
	connURI  string
	database string
}

func NewMongoDBIndexer(connURI, database string) *MongoDBIndexer {
	return &MongoDBIndexer{
		connURI:  connURI,
		database: database,
	}
}

func (m *MongoDBIndexer) IndexAll() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.connURI))
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	db := client.Database(m.database)

	indexes := map[string]bson.D{
		RegionCollection:   {{Key: "region_id", Value: 1}, {Key: "disease", Value: 1}},
		CaseCollection:     {{Key: "region_id", Value: 1}, {Key: "date", Value: 1}, {Key: "disease", Value: 1}},
		RiskCollection:     {{Key: "region_id", Value: 1}, {Key: "date", Value: 1}, {Key: "disease", Value: 1}},
		AlertCollection:    {{Key: "region_id", Value: 1}, {Key: "date", Value: 1}, {Key: "disease", Value: 1}, {Key: "reason", Value: 1}},
		ForecastCollection: {{Key: "region_id", Value: 1}, {Key: "date", Value: 1}, {Key: "disease", Value: 1}, {Key: "model", Value: 1}},
	}

	for collection, keys := range indexes {
		_, err := db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    keys,
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			log.WithError(err).WithField("collection", collection).Error("create identity index")
			return err
		}
	}

	// Secondary indexes for range reads by date.
	for _, collection := range []string{CaseCollection, RiskCollection, AlertCollection, ForecastCollection} {
		_, err := db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "disease", Value: 1}, {Key: "date", Value: 1}},
		})
		if err != nil {
			log.WithError(err).WithField("collection", collection).Error("create range index")
			return err
		}
	}

	return nil
}
