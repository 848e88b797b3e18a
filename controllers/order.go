// controllers/order.go
package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
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

// OrderController handles checkout and order lifecycle requests
type OrderController struct {
	OrderCollection *mongo.Collection
	CropCollection  *mongo.Collection
	UserCollection  *mongo.Collection
	EmailService    *utils.EmailService
}

// NewOrderController creates a new OrderController
func NewOrderController(client *mongo.Client, emailService *utils.EmailService) *OrderController {
	db := client.Database(utils.DatabaseName())
	return &OrderController{
		OrderCollection: db.Collection("orders"),
		CropCollection:  db.Collection("crops"),
		UserCollection:  db.Collection("users"),
		EmailService:    emailService,
	}
}

type checkoutRequest struct {
	Cart []CartLine `json:"cart" validate:"required,min=1,dive"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted shipped delivered cancelled"`
}

type stockChange struct {
	productID primitive.ObjectID
	quantity  int
}

// Checkout turns the buyer's cart into one placed order per distinct
// farmer. Stock is decremented with a guarded $inc per product before the
// orders are written; if an insert fails partway, the orders created so
// far are removed and the decrements undone, so a multi-farmer checkout
// either succeeds whole or leaves nothing behind (best effort, there is
// no multi-document transaction on a standalone mongod).
func (oc *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	buyerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if len(req.Cart) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "Cart is empty")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Resolve every referenced crop. Ids that don't parse never match a
	// crop, so the splitter reports them as unknown along with missing ones.
	productIDs := []primitive.ObjectID{}
	for _, line := range req.Cart {
		if id, err := primitive.ObjectIDFromHex(line.ProductID); err == nil {
			productIDs = append(productIDs, id)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	crops := make(map[string]models.Crop)
	if len(productIDs) > 0 {
		cursor, err := oc.CropCollection.Find(ctx, bson.M{"_id": bson.M{"$in": productIDs}})
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Server error")
			return
		}
		defer cursor.Close(ctx)
		for cursor.Next(ctx) {
			var crop models.Crop
			if err := cursor.Decode(&crop); err != nil {
				utils.RespondError(w, http.StatusInternalServerError, "Server error")
				return
			}
			crops[crop.ID.Hex()] = crop
		}
		if err := cursor.Err(); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Server error")
			return
		}
	}

	// Unknown ids reject the whole checkout; silently dropping lines would
	// charge the buyer for a cart they didn't get.
	orders, unknown := splitCartByFarmer(buyerID, req.Cart, crops)
	if len(unknown) > 0 {
		utils.RespondError(w, http.StatusBadRequest,
			"Unknown products in cart: "+strings.Join(unknown, ", "))
		return
	}

	// Stock check against the snapshot first, so obviously oversized carts
	// fail before any write.
	needed := quantityByProduct(req.Cart)
	for _, line := range req.Cart {
		crop := crops[line.ProductID]
		if crop.QuantityAvailable < needed[line.ProductID] {
			utils.RespondError(w, http.StatusBadRequest,
				fmt.Sprintf("Insufficient stock for %s", crop.ProductName))
			return
		}
	}

	// Guarded decrement per product. The filter re-checks availability so
	// a concurrent checkout can't drive stock negative.
	var decremented []stockChange
	seen := make(map[string]bool)
	for _, line := range req.Cart {
		if seen[line.ProductID] {
			continue
		}
		seen[line.ProductID] = true
		crop := crops[line.ProductID]
		n := needed[line.ProductID]
		result, err := oc.CropCollection.UpdateOne(ctx,
			bson.M{"_id": crop.ID, "quantity_available": bson.M{"$gte": n}},
			bson.M{"$inc": bson.M{"quantity_available": -n}})
		if err != nil || result.ModifiedCount == 0 {
			oc.restoreStock(ctx, decremented)
			if err != nil {
				log.Printf("checkout stock decrement error: %v", err)
				utils.RespondError(w, http.StatusInternalServerError, "Server error")
				return
			}
			utils.RespondError(w, http.StatusBadRequest,
				fmt.Sprintf("Insufficient stock for %s", crop.ProductName))
			return
		}
		decremented = append(decremented, stockChange{productID: crop.ID, quantity: n})
	}

	createdOrders := []models.Order{}
	for _, order := range orders {
		now := time.Now()
		order.CreatedAt = now
		order.UpdatedAt = now
		result, err := oc.OrderCollection.InsertOne(ctx, order)
		if err != nil {
			log.Printf("checkout insert error: %v", err)
			oc.rollbackOrders(ctx, createdOrders)
			oc.restoreStock(ctx, decremented)
			utils.RespondError(w, http.StatusInternalServerError, "Server error")
			return
		}
		order.ID = result.InsertedID.(primitive.ObjectID)
		createdOrders = append(createdOrders, order)
	}

	if oc.EmailService != nil {
		oc.notifyFarmers(ctx, createdOrders)
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Order placed successfully",
		"orders":  createdOrders,
	})
}

func (oc *OrderController) restoreStock(ctx context.Context, changes []stockChange) {
	for _, change := range changes {
		_, err := oc.CropCollection.UpdateOne(ctx,
			bson.M{"_id": change.productID},
			bson.M{"$inc": bson.M{"quantity_available": change.quantity}})
		if err != nil {
			log.Printf("stock restore failed for %s: %v", change.productID.Hex(), err)
		}
	}
}

func (oc *OrderController) rollbackOrders(ctx context.Context, orders []models.Order) {
	for _, order := range orders {
		if _, err := oc.OrderCollection.DeleteOne(ctx, bson.M{"_id": order.ID}); err != nil {
			log.Printf("order rollback failed for %s: %v", order.ID.Hex(), err)
		}
	}
}

func (oc *OrderController) notifyFarmers(ctx context.Context, orders []models.Order) {
	farmerIDs := make([]primitive.ObjectID, 0, len(orders))
	for _, order := range orders {
		farmerIDs = append(farmerIDs, order.Farmer)
	}
	farmers, err := userSummaries(ctx, oc.UserCollection, farmerIDs)
	if err != nil {
		log.Printf("order notification lookup error: %v", err)
		return
	}
	for _, order := range orders {
		farmer, ok := farmers[order.Farmer]
		if !ok || farmer.Email == "" {
			continue
		}
		if err := oc.EmailService.SendOrderPlacedEmail(farmer.Email, order.ID.Hex(), order.TotalAmount); err != nil {
			log.Printf("order email to %s failed: %v", farmer.Email, err)
		}
	}
}

// listOrders fetches orders matching filter newest first and attaches
// buyer, farmer and product summaries.
func (oc *OrderController) listOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cursor, err := oc.OrderCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}

	userIDs := []primitive.ObjectID{}
	productIDs := []primitive.ObjectID{}
	for _, order := range orders {
		userIDs = append(userIDs, order.Buyer, order.Farmer)
		for _, item := range order.Items {
			productIDs = append(productIDs, item.Product)
		}
	}

	users, err := userSummaries(ctx, oc.UserCollection, userIDs)
	if err != nil {
		return nil, err
	}
	products, err := cropSummaries(ctx, oc.CropCollection, productIDs)
	if err != nil {
		return nil, err
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
	return orders, nil
}

// GetFarmerOrders lists orders placed with the authenticated farmer
func (oc *OrderController) GetFarmerOrders(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.UserFromContext(r)
	farmerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	orders, err := oc.listOrders(ctx, bson.M{"farmer": farmerID})
	if err != nil {
		log.Printf("get farmer orders error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// GetBuyerOrders lists the authenticated buyer's orders
func (oc *OrderController) GetBuyerOrders(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.UserFromContext(r)
	buyerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	orders, err := oc.listOrders(ctx, bson.M{"buyer": buyerID})
	if err != nil {
		log.Printf("get buyer orders error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// UpdateOrderStatus advances an order along the status graph. Only the
// owning farmer may move it, and only along a legal edge from the
// current state.
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.UserFromContext(r)
	farmerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var order models.Order
	err = oc.OrderCollection.FindOne(ctx, bson.M{"_id": orderID, "farmer": farmerID}).Decode(&order)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	if !models.CanTransition(order.Status, req.Status) {
		utils.RespondError(w, http.StatusBadRequest,
			fmt.Sprintf("Cannot move order from %s to %s", order.Status, req.Status))
		return
	}

	order.Status = req.Status
	order.UpdatedAt = time.Now()
	_, err = oc.OrderCollection.UpdateOne(ctx, bson.M{"_id": orderID},
		bson.M{"$set": bson.M{"status": order.Status, "updated_at": order.UpdatedAt}})
	if err != nil {
		log.Printf("update order status error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Status updated",
		"order":   order,
	})
}

// GetFarmerDashboard summarizes delivered revenue, pending orders and
// the farmer's five most recent orders
func (oc *OrderController) GetFarmerDashboard(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.UserFromContext(r)
	farmerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	orders, err := oc.listOrders(ctx, bson.M{"farmer": farmerID})
	if err != nil {
		log.Printf("farmer dashboard error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	var totalRevenue float64
	placedCount := 0
	for _, order := range orders {
		if order.Status == models.StatusDelivered {
			totalRevenue += order.TotalAmount
		}
		if order.Status == models.StatusPlaced {
			placedCount++
		}
	}

	recentOrders := orders
	if len(recentOrders) > 5 {
		recentOrders = recentOrders[:5]
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"totalRevenue": totalRevenue,
		"placedOrders": placedCount,
		"recentOrders": recentOrders,
	})
}

// GetBuyerDashboard summarizes the buyer's order count, delivered spend
// and five most recent orders
func (oc *OrderController) GetBuyerDashboard(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.UserFromContext(r)
	buyerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	orders, err := oc.listOrders(ctx, bson.M{"buyer": buyerID})
	if err != nil {
		log.Printf("buyer dashboard error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	var totalSpent float64
	for _, order := range orders {
		if order.Status == models.StatusDelivered {
			totalSpent += order.TotalAmount
		}
	}

	recentOrders := orders
	if len(recentOrders) > 5 {
		recentOrders = recentOrders[:5]
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ordersCount":  len(orders),
		"totalSpent":   totalSpent,
		"recentOrders": recentOrders,
	})
}
