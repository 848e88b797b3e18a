package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"kisancart/middleware"
	"kisancart/models"
	"kisancart/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// AuthController handles registration, login and profile updates
type AuthController struct {
	Collection   *mongo.Collection
	EmailService *utils.EmailService
}

// NewAuthController creates a new AuthController
func NewAuthController(client *mongo.Client, emailService *utils.EmailService) *AuthController {
	collection := client.Database(utils.DatabaseName()).Collection("users")
	return &AuthController{
		Collection:   collection,
		EmailService: emailService,
	}
}

type registerRequest struct {
	Name            string         `json:"name" validate:"required"`
	Email           string         `json:"email" validate:"required,email"`
	Phone           string         `json:"phone" validate:"required"`
	Password        string         `json:"password" validate:"required,min=6"`
	ConfirmPassword string         `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string         `json:"role" validate:"omitempty,oneof=farmer buyer"`
	Address         models.Address `json:"address"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name    *string         `json:"name"`
	Phone   *string         `json:"phone"`
	Address *models.Address `json:"address"`
}

// Register handles user registration
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Buyers are the default; admin accounts cannot be self-registered.
	role := req.Role
	if role == "" {
		role = models.RoleBuyer
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	count, err := ac.Collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if count > 0 {
		utils.RespondError(w, http.StatusConflict, "Email already registered.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	now := time.Now()
	user := models.User{
		Name:      req.Name,
		Email:     email,
		Phone:     req.Phone,
		Password:  string(hashedPassword),
		Role:      role,
		Address:   req.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := ac.Collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondError(w, http.StatusConflict, "Email already registered.")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "Error creating user")
		return
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	if ac.EmailService != nil {
		if err := ac.EmailService.SendWelcomeEmail(user.Email, user.Name); err != nil {
			log.Printf("welcome email to %s failed: %v", user.Email, err)
		}
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// Login handles user authentication
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var user models.User
	err := ac.Collection.FindOne(ctx, bson.M{"email": strings.ToLower(req.Email)}).Decode(&user)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	// Compare the hashed password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// UpdateMe updates the authenticated user's name, phone or address
func (ac *AuthController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	updates := bson.M{"updated_at": time.Now()}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var user models.User
	err = ac.Collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("updateMe error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Profile update failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
