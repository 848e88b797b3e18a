package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"kisancart/middleware"
	"kisancart/models"
	"kisancart/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CropController handles product listing requests
type CropController struct {
	CropCollection *mongo.Collection
	UserCollection *mongo.Collection
}

// NewCropController creates a new CropController
func NewCropController(client *mongo.Client) *CropController {
	db := client.Database(utils.DatabaseName())
	return &CropController{
		CropCollection: db.Collection("crops"),
		UserCollection: db.Collection("users"),
	}
}

type addCropRequest struct {
	ProductName       string    `json:"productName" validate:"required"`
	Category          string    `json:"category" validate:"required"`
	Description       string    `json:"description"`
	Price             float64   `json:"price" validate:"required,gt=0"`
	Unit              string    `json:"unit" validate:"required"`
	QuantityAvailable int       `json:"quantityAvailable" validate:"gte=0"`
	AvailableUntil    time.Time `json:"availableUntil" validate:"required"`
	ProductImages     []string  `json:"productImages" validate:"required,min=1,dive,required"`
}

type updateCropRequest struct {
	ProductName       *string    `json:"productName"`
	Category          *string    `json:"category"`
	Description       *string    `json:"description"`
	Price             *float64   `json:"price"`
	Unit              *string    `json:"unit"`
	QuantityAvailable *int       `json:"quantityAvailable"`
	AvailableUntil    *time.Time `json:"availableUntil"`
	IsActive          *bool      `json:"isActive"`
}

// AddCrop creates a listing owned by the authenticated farmer
func (cc *CropController) AddCrop(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	farmerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req addCropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	crop := models.Crop{
		Farmer:            farmerID,
		ProductName:       req.ProductName,
		Category:          req.Category,
		Description:       req.Description,
		Price:             req.Price,
		Unit:              req.Unit,
		QuantityAvailable: req.QuantityAvailable,
		AvailableUntil:    req.AvailableUntil,
		IsActive:          true,
		ProductImages:     req.ProductImages,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := cc.CropCollection.InsertOne(ctx, crop)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error creating product")
		return
	}
	crop.ID = result.InsertedID.(primitive.ObjectID)

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Product added successfully",
		"product": crop,
	})
}

// GetAllCrops retrieves every listing, newest first, with farmer summaries
func (cc *CropController) GetAllCrops(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := cc.CropCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error fetching products")
		return
	}
	defer cursor.Close(ctx)

	crops := []models.Crop{}
	farmerIDs := []primitive.ObjectID{}
	for cursor.Next(ctx) {
		var crop models.Crop
		if err := cursor.Decode(&crop); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Error reading products")
			return
		}
		crops = append(crops, crop)
		farmerIDs = append(farmerIDs, crop.Farmer)
	}
	if err := cursor.Err(); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error reading products")
		return
	}

	farmers, err := userSummaries(ctx, cc.UserCollection, farmerIDs)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error fetching products")
		return
	}
	for i := range crops {
		if summary, ok := farmers[crops[i].Farmer]; ok {
			summary.Phone = ""
			crops[i].FarmerInfo = &summary
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"products": crops})
}

// GetRecommendations returns up to 6 active listings in the same category,
// excluding the product being viewed. An empty category yields an empty list.
func (cc *CropController) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"products": []models.Crop{}})
		return
	}

	filter := bson.M{"category": category, "is_active": true}
	if excludeID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("excludeId")); err == nil {
		filter["_id"] = bson.M{"$ne": excludeID}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cursor, err := cc.CropCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(6))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load recommendations")
		return
	}
	defer cursor.Close(ctx)

	crops := []models.Crop{}
	if err := cursor.All(ctx, &crops); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load recommendations")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"products": crops})
}

// GetMyCrops retrieves the authenticated farmer's listings
func (cc *CropController) GetMyCrops(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.UserFromContext(r)
	farmerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	cursor, err := cc.CropCollection.Find(ctx, bson.M{"farmer": farmerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error fetching products")
		return
	}
	defer cursor.Close(ctx)

	crops := []models.Crop{}
	if err := cursor.All(ctx, &crops); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error reading products")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"products": crops})
}

// GetCropByID retrieves a single listing with its farmer's contact summary
func (cc *CropController) GetCropByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var crop models.Crop
	err = cc.CropCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&crop)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Product not found")
		return
	}

	var farmer models.UserSummary
	if err := cc.UserCollection.FindOne(ctx, bson.M{"_id": crop.Farmer}).Decode(&farmer); err == nil {
		crop.FarmerInfo = &farmer
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"product": crop})
}

// UpdateCrop updates a listing owned by the authenticated farmer
func (cc *CropController) UpdateCrop(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.UserFromContext(r)
	farmerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req updateCropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	updates := bson.M{"updated_at": time.Now()}
	if req.ProductName != nil {
		updates["product_name"] = *req.ProductName
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			utils.RespondError(w, http.StatusBadRequest, "price must be at least 0")
			return
		}
		updates["price"] = *req.Price
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.QuantityAvailable != nil {
		if *req.QuantityAvailable < 0 {
			utils.RespondError(w, http.StatusBadRequest, "quantityAvailable must be at least 0")
			return
		}
		updates["quantity_available"] = *req.QuantityAvailable
	}
	if req.AvailableUntil != nil {
		updates["available_until"] = *req.AvailableUntil
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var crop models.Crop
	err = cc.CropCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "farmer": farmerID},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&crop)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondError(w, http.StatusNotFound, "Product not found or not authorized")
			return
		}
		log.Printf("update crop error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Product updated",
		"product": crop,
	})
}

// DeleteCrop removes a listing owned by the authenticated farmer
func (cc *CropController) DeleteCrop(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.UserFromContext(r)

	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var crop models.Crop
	err = cc.CropCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&crop)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Product not found")
		return
	}

	// check ownership
	if crop.Farmer.Hex() != claims.UserID {
		utils.RespondError(w, http.StatusForbidden, "Not authorized")
		return
	}

	if _, err := cc.CropCollection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Delete failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}
