package store

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/epiwatch/epiwatch-api/schema"
)

type Region interface {
	UpsertRegions(regions []schema.Region) (int, error)
	ListRegions(disease string) ([]schema.Region, error)
}

// UpsertRegions writes region metadata. A disease-agnostic record and
// disease-specific overlays for the same region identifier are distinct
// documents; an overlay write never touches the agnostic record.
func (m *mongoDB) UpsertRegions(regions []schema.Region) (int, error) {
	c := m.client.Database(m.database).Collection(schema.RegionCollection)
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	inserted := 0
	for _, r := range regions {
		if r.Disease == "" {
			r.Disease = schema.DiseaseAgnostic
		}
		key := schema.RegionKey{RegionID: r.ID, Disease: r.Disease}
		if err := key.Validate(); err != nil {
			return inserted, err
		}

		result, err := c.UpdateOne(ctx, key.Filter(), bson.M{"$set": r}, options.Update().SetUpsert(true))
		if err != nil {
			return inserted, wrapWriteError(err)
		}
		if result.UpsertedID != nil {
			inserted++
		}
	}

	log.WithFields(log.Fields{
		"prefix":   mongoLogPrefix,
		"regions":  len(regions),
		"inserted": inserted,
	}).Debug("upsert regions")

	return inserted, nil
}

// ListRegions returns the regions relevant to a disease: its overlay
// records plus the disease-agnostic records not shadowed by an overlay.
// An empty disease returns the full superset without picking a default.
func (m *mongoDB) ListRegions(disease string) ([]schema.Region, error) {
	c := m.client.Database(m.database).Collection(schema.RegionCollection)
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if disease != "" {
		filter["disease"] = bson.M{"$in": []string{disease, schema.DiseaseAgnostic}}
	}
	opts := options.Find().SetSort(bson.M{"region_id": 1})
	cursor, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var all []schema.Region
	if err := cursor.All(ctx, &all); err != nil {
		return nil, err
	}
	if disease == "" {
		return all, nil
	}

	// Overlay records shadow the agnostic record for the same region.
	byRegion := make(map[string]schema.Region, len(all))
	order := make([]string, 0, len(all))
	for _, r := range all {
		existing, ok := byRegion[r.ID]
		if !ok {
			byRegion[r.ID] = r
			order = append(order, r.ID)
			continue
		}
		if existing.Disease == schema.DiseaseAgnostic && r.Disease == disease {
			byRegion[r.ID] = r
		}
	}

	regions := make([]schema.Region, 0, len(order))
	for _, id := range order {
		regions = append(regions, byRegion[id])
	}
	return regions, nil
}
