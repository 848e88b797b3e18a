package controllers

import (
	"context"
	"net/http"
	"time"

	"kisancart/models"
	"kisancart/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdminController serves the admin panel's listing and moderation routes
type AdminController struct {
	UserCollection  *mongo.Collection
	CropCollection  *mongo.Collection
	OrderCollection *mongo.Collection
}

// NewAdminController creates a new AdminController
func NewAdminController(client *mongo.Client) *AdminController {
	db := client.Database(utils.DatabaseName())
	return &AdminController{
		UserCollection:  db.Collection("users"),
		CropCollection:  db.Collection("crops"),
		OrderCollection: db.Collection("orders"),
	}
}

// GetProducts lists all crops with farmer summaries
func (ac *AdminController) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := ac.CropCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load products")
		return
	}
	defer cursor.Close(ctx)

	crops := []models.Crop{}
	if err := cursor.All(ctx, &crops); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load products")
		return
	}

	farmerIDs := []primitive.ObjectID{}
	for _, crop := range crops {
		farmerIDs = append(farmerIDs, crop.Farmer)
	}
	farmers, err := userSummaries(ctx, ac.UserCollection, farmerIDs)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load products")
		return
	}
	for i := range crops {
		if summary, ok := farmers[crops[i].Farmer]; ok {
			crops[i].FarmerInfo = &summary
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"products": crops})
}

// DeleteProduct removes any crop regardless of owner
func (ac *AdminController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := ac.CropCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Delete failed")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// GetUsers lists every account, passwords stripped by the model's json tag
func (ac *AdminController) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := ac.UserCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load users")
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load users")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// GetOrders lists every order with buyer, farmer and product summaries
func (ac *AdminController) GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := ac.OrderCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load orders")
		return
	}

	userIDs := []primitive.ObjectID{}
	productIDs := []primitive.ObjectID{}
	for _, order := range orders {
		userIDs = append(userIDs, order.Buyer, order.Farmer)
		for _, item := range order.Items {
			productIDs = append(productIDs, item.Product)
		}
	}
	users, err := userSummaries(ctx, ac.UserCollection, userIDs)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	products, err := cropSummaries(ctx, ac.CropCollection, productIDs)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load orders")
		return
	}

	for i := range orders {
		if summary, ok := users[orders[i].Buyer]; ok {
			orders[i].BuyerInfo = &summary
		}
		if summary, ok := users[orders[i].Farmer]; ok {
			orders[i].FarmerInfo = &summary
		}
		for j := range orders[i].Items {
			if summary, ok := products[orders[i].Items[j].Product]; ok {
				orders[i].Items[j].ProductInfo = &summary
			}
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}
