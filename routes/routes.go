// routes/routes.go
package routes

import (
	"net/http"

	"kisancart/controllers"
	"kisancart/middleware"
	"kisancart/models"
	"kisancart/utils"

	"github.com/gorilla/mux"
)

// authed requires a valid bearer token.
func authed(h http.HandlerFunc) http.Handler {
	return middleware.AuthMiddleware(h)
}

// roleOnly requires a valid bearer token carrying the given role. Role
// checks live here, at the routing layer, instead of inside handlers.
func roleOnly(role string, h http.HandlerFunc) http.Handler {
	return middleware.AuthMiddleware(middleware.RequireRole(role)(h))
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(
	router *mux.Router,
	authController *controllers.AuthController,
	cropController *controllers.CropController,
	orderController *controllers.OrderController,
	messageController *controllers.MessageController,
	farmerController *controllers.FarmerController,
	statsController *controllers.StatsController,
	adminController *controllers.AdminController,
) {
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "API running"})
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Auth
	api.HandleFunc("/auth/register", authController.Register).Methods("POST")
	api.HandleFunc("/auth/login", authController.Login).Methods("POST")
	api.Handle("/auth/me", authed(authController.UpdateMe)).Methods("PUT")

	// Crops. Fixed paths must be registered before /crops/{id}.
	api.Handle("/crops/add", roleOnly(models.RoleFarmer, cropController.AddCrop)).Methods("POST")
	api.HandleFunc("/crops/all", cropController.GetAllCrops).Methods("GET")
	api.HandleFunc("/crops/recommendations", cropController.GetRecommendations).Methods("GET")
	api.Handle("/crops/mine", roleOnly(models.RoleFarmer, cropController.GetMyCrops)).Methods("GET")
	api.HandleFunc("/crops/{id}", cropController.GetCropByID).Methods("GET")
	api.Handle("/crops/{id}", roleOnly(models.RoleFarmer, cropController.UpdateCrop)).Methods("PUT")
	api.Handle("/crops/{id}", roleOnly(models.RoleFarmer, cropController.DeleteCrop)).Methods("DELETE")

	// Orders
	api.Handle("/orders/checkout", authed(orderController.Checkout)).Methods("POST")
	api.Handle("/orders/farmer", roleOnly(models.RoleFarmer, orderController.GetFarmerOrders)).Methods("GET")
	api.Handle("/orders/farmer/dashboard", roleOnly(models.RoleFarmer, orderController.GetFarmerDashboard)).Methods("GET")
	api.Handle("/orders/buyer", authed(orderController.GetBuyerOrders)).Methods("GET")
	api.Handle("/orders/buyer/dashboard", authed(orderController.GetBuyerDashboard)).Methods("GET")
	api.Handle("/orders/{id}/status", roleOnly(models.RoleFarmer, orderController.UpdateOrderStatus)).Methods("PATCH")

	// Messages
	api.Handle("/messages/send", authed(messageController.SendMessage)).Methods("POST")
	api.Handle("/messages/reply", authed(messageController.ReplyMessage)).Methods("POST")
	api.Handle("/messages/inbox", authed(messageController.GetInbox)).Methods("GET")
	api.Handle("/messages/unread-count", authed(messageController.GetUnreadCount)).Methods("GET")
	api.Handle("/messages/mark-read", authed(messageController.MarkAllRead)).Methods("PATCH")
	api.Handle("/messages/{id}/read", authed(messageController.MarkOneRead)).Methods("PATCH")

	// Public directory and stats
	api.HandleFunc("/farmers", farmerController.GetAllFarmers).Methods("GET")
	api.HandleFunc("/stats", statsController.GetPlatformStats).Methods("GET")

	// Admin panel
	api.Handle("/admin/products", roleOnly(models.RoleAdmin, adminController.GetProducts)).Methods("GET")
	api.Handle("/admin/products/{id}", roleOnly(models.RoleAdmin, adminController.DeleteProduct)).Methods("DELETE")
	api.Handle("/admin/users", roleOnly(models.RoleAdmin, adminController.GetUsers)).Methods("GET")
	api.Handle("/admin/orders", roleOnly(models.RoleAdmin, adminController.GetOrders)).Methods("GET")
}
