// Seeds the database with demo farmers, buyers, crops and orders.
// All seeded accounts use the password "123456".
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"kisancart/models"
	"kisancart/utils"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var categories = []string{"Fruits", "Vegetables", "Grains"}
var cropNames = []string{"Tomato", "Potato", "Onion", "Banana", "Apple", "Rice", "Wheat"}

func randBetween(min, max int) int {
	return rand.Intn(max-min+1) + min
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	client := utils.ConnectDB()
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	db := client.Database(utils.DatabaseName())
	users := db.Collection("users")
	crops := db.Collection("crops")
	orders := db.Collection("orders")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Clear old data
	for _, coll := range []*mongo.Collection{users, crops, orders} {
		if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("clearing %s failed: %v", coll.Name(), err)
		}
	}
	log.Println("Old data cleared")

	hashed, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	password := string(hashed)
	now := time.Now()

	// Farmers
	farmerDocs := make([]interface{}, 0, 100)
	farmerIDs := make([]primitive.ObjectID, 0, 100)
	for i := 1; i <= 100; i++ {
		id := primitive.NewObjectID()
		farmerIDs = append(farmerIDs, id)
		farmerDocs = append(farmerDocs, models.User{
			ID:        id,
			Name:      fmt.Sprintf("Farmer %d", i),
			Email:     fmt.Sprintf("farmer%d@gmail.com", i),
			Phone:     fmt.Sprintf("9000000%d", i),
			Password:  password,
			Role:      models.RoleFarmer,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if _, err := users.InsertMany(ctx, farmerDocs); err != nil {
		log.Fatalf("seeding farmers failed: %v", err)
	}
	log.Println("100 farmers created")

	// Crops
	cropDocs := []interface{}{}
	seededCrops := []models.Crop{}
	for _, farmerID := range farmerIDs {
		for i := 0; i < randBetween(2, 5); i++ {
			name := cropNames[rand.Intn(len(cropNames))]
			crop := models.Crop{
				ID:                primitive.NewObjectID(),
				Farmer:            farmerID,
				ProductName:       name,
				Category:          categories[rand.Intn(len(categories))],
				Description:       "Fresh " + name,
				Price:             float64(randBetween(20, 80)),
				Unit:              "kg",
				QuantityAvailable: randBetween(20, 200),
				AvailableUntil:    now.Add(10 * 24 * time.Hour),
				IsActive:          true,
				ProductImages: []string{
					"https://images.unsplash.com/photo-1546069901-ba9599a7e63c",
				},
				CreatedAt: now,
				UpdatedAt: now,
			}
			cropDocs = append(cropDocs, crop)
			seededCrops = append(seededCrops, crop)
		}
	}
	if _, err := crops.InsertMany(ctx, cropDocs); err != nil {
		log.Fatalf("seeding crops failed: %v", err)
	}
	log.Printf("%d crops created", len(cropDocs))

	// Buyers
	buyerDocs := make([]interface{}, 0, 50)
	buyerIDs := make([]primitive.ObjectID, 0, 50)
	for i := 1; i <= 50; i++ {
		id := primitive.NewObjectID()
		buyerIDs = append(buyerIDs, id)
		buyerDocs = append(buyerDocs, models.User{
			ID:        id,
			Name:      fmt.Sprintf("Buyer %d", i),
			Email:     fmt.Sprintf("buyer%d@gmail.com", i),
			Phone:     fmt.Sprintf("8000000%d", i),
			Password:  password,
			Role:      models.RoleBuyer,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if _, err := users.InsertMany(ctx, buyerDocs); err != nil {
		log.Fatalf("seeding buyers failed: %v", err)
	}
	log.Println("50 buyers created")

	// Orders: each buyer places 2-5 single-item orders
	orderDocs := []interface{}{}
	for _, buyerID := range buyerIDs {
		for i := 0; i < randBetween(2, 5); i++ {
			crop := seededCrops[rand.Intn(len(seededCrops))]
			qty := randBetween(1, 5)
			orderDocs = append(orderDocs, models.Order{
				Buyer:  buyerID,
				Farmer: crop.Farmer,
				Items: []models.OrderItem{{
					Product:      crop.ID,
					Quantity:     qty,
					PricePerUnit: crop.Price,
				}},
				TotalAmount: crop.Price * float64(qty),
				Status:      models.StatusPlaced,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
	}
	if _, err := orders.InsertMany(ctx, orderDocs); err != nil {
		log.Fatalf("seeding orders failed: %v", err)
	}
	log.Printf("%d orders created", len(orderDocs))

	log.Println("Seeding completed successfully")
}
