package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"kisancart/models"
	"kisancart/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// StatsController serves public platform-wide counters
type StatsController struct {
	UserCollection  *mongo.Collection
	CropCollection  *mongo.Collection
	OrderCollection *mongo.Collection
}

// NewStatsController creates a new StatsController
func NewStatsController(client *mongo.Client) *StatsController {
	db := client.Database(utils.DatabaseName())
	return &StatsController{
		UserCollection:  db.Collection("users"),
		CropCollection:  db.Collection("crops"),
		OrderCollection: db.Collection("orders"),
	}
}

// GetPlatformStats returns farmer/product/order counts and total
// delivered revenue
func (sc *StatsController) GetPlatformStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	farmersCount, err := sc.UserCollection.CountDocuments(ctx, bson.M{"role": models.RoleFarmer})
	if err != nil {
		log.Printf("stats error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	productsCount, err := sc.CropCollection.CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		log.Printf("stats error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	ordersCount, err := sc.OrderCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Printf("stats error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	// Revenue counts delivered orders only.
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "status", Value: models.StatusDelivered}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$total_amount"}}},
		}}},
	}
	cursor, err := sc.OrderCollection.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("stats revenue error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	defer cursor.Close(ctx)

	var revenue float64
	if cursor.Next(ctx) {
		var result struct {
			Total float64 `bson:"total"`
		}
		if err := cursor.Decode(&result); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Server error")
			return
		}
		revenue = result.Total
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"farmers":  farmersCount,
		"products": productsCount,
		"orders":   ordersCount,
		"revenue":  revenue,
	})
}
