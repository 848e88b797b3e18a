// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"kisancart/controllers"
	"kisancart/routes"
	"kisancart/utils"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		utils.JwtKey = []byte(secret)
	}

	// Initialize EmailService (nil when no API key is configured)
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	// Initialize controllers
	authController := controllers.NewAuthController(client, emailService)
	cropController := controllers.NewCropController(client)
	orderController := controllers.NewOrderController(client, emailService)
	messageController := controllers.NewMessageController(client)
	farmerController := controllers.NewFarmerController(client)
	statsController := controllers.NewStatsController(client)
	adminController := controllers.NewAdminController(client)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router,
		authController, cropController, orderController,
		messageController, farmerController, statsController, adminController)

	// CORS for the SPA client
	origins := strings.Split(os.Getenv("CORS_ORIGINS"), ",")
	if os.Getenv("CORS_ORIGINS") == "" {
		origins = []string{"http://localhost:5173"}
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, cors(router)))
}
