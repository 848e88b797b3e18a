package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"kisancart/models"
	"kisancart/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FarmerController serves the public farmer directory
type FarmerController struct {
	UserCollection *mongo.Collection
	CropCollection *mongo.Collection
}

// NewFarmerController creates a new FarmerController
func NewFarmerController(client *mongo.Client) *FarmerController {
	db := client.Database(utils.DatabaseName())
	return &FarmerController{
		UserCollection: db.Collection("users"),
		CropCollection: db.Collection("crops"),
	}
}

type farmerEntry struct {
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	Address      struct {
		City  string `json:"city"`
		State string `json:"state"`
	} `json:"address"`
	ProductCount int64 `json:"productCount"`
}

// GetAllFarmers lists every farmer with city, state and listing count
func (fc *FarmerController) GetAllFarmers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := fc.UserCollection.Find(ctx, bson.M{"role": models.RoleFarmer})
	if err != nil {
		log.Printf("get farmers error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	farmers := []farmerEntry{}
	for _, user := range users {
		count, err := fc.CropCollection.CountDocuments(ctx, bson.M{"farmer": user.ID})
		if err != nil {
			log.Printf("farmer product count error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Server error")
			return
		}
		entry := farmerEntry{ID: user.ID, Name: user.Name, ProductCount: count}
		entry.Address.City = user.Address.City
		entry.Address.State = user.Address.State
		farmers = append(farmers, entry)
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"farmers": farmers})
}
