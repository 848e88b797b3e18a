package controllers

import (
	"context"

	"kisancart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// The original API "populates" referenced documents inline. These helpers
// do the equivalent with one $in query per collection: collect the ids a
// listing references, fetch the summaries, and let the handler attach them.

func dedupIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func userSummaries(ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	summaries := make(map[primitive.ObjectID]models.UserSummary)
	ids = dedupIDs(ids)
	if len(ids) == 0 {
		return summaries, nil
	}

	cursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var summary models.UserSummary
		if err := cursor.Decode(&summary); err != nil {
			return nil, err
		}
		summaries[summary.ID] = summary
	}
	return summaries, cursor.Err()
}

func cropSummaries(ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]models.CropSummary, error) {
	summaries := make(map[primitive.ObjectID]models.CropSummary)
	ids = dedupIDs(ids)
	if len(ids) == 0 {
		return summaries, nil
	}

	cursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var summary models.CropSummary
		if err := cursor.Decode(&summary); err != nil {
			return nil, err
		}
		summaries[summary.ID] = summary
	}
	return summaries, cursor.Err()
}
