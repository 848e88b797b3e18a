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

// MessageController handles buyer/farmer direct messages
type MessageController struct {
	MessageCollection *mongo.Collection
	UserCollection    *mongo.Collection
	CropCollection    *mongo.Collection
}

// NewMessageController creates a new MessageController
func NewMessageController(client *mongo.Client) *MessageController {
	db := client.Database(utils.DatabaseName())
	return &MessageController{
		MessageCollection: db.Collection("messages"),
		UserCollection:    db.Collection("users"),
		CropCollection:    db.Collection("crops"),
	}
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	ProductID  string `json:"productId"`
	Text       string `json:"text" validate:"required"`
}

func (mc *MessageController) createMessage(w http.ResponseWriter, r *http.Request, confirmation string) {
	claims, ok := middleware.UserFromContext(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	senderID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Receiver and message text required")
		return
	}

	receiverID, err := primitive.ObjectIDFromHex(req.ReceiverID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid receiver ID")
		return
	}

	msg := models.Message{
		Sender:    senderID,
		Receiver:  receiverID,
		Text:      req.Text,
		Read:      false,
		CreatedAt: time.Now(),
	}
	if req.ProductID != "" {
		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid product ID")
			return
		}
		msg.Product = &productID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := mc.MessageCollection.InsertOne(ctx, msg)
	if err != nil {
		log.Printf("send message error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	msg.ID = result.InsertedID.(primitive.ObjectID)

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": confirmation,
		"data":    msg,
	})
}

// SendMessage creates a message from the authenticated user
func (mc *MessageController) SendMessage(w http.ResponseWriter, r *http.Request) {
	mc.createMessage(w, r, "Message sent")
}

// ReplyMessage creates a reply; same shape as SendMessage, kept as its
// own route for the client's farmer inbox
func (mc *MessageController) ReplyMessage(w http.ResponseWriter, r *http.Request) {
	mc.createMessage(w, r, "Reply sent")
}

// GetInbox lists the authenticated user's received messages newest first
func (mc *MessageController) GetInbox(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.UserFromContext(r)
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	cursor, err := mc.MessageCollection.Find(ctx, bson.M{"receiver": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	senderIDs := []primitive.ObjectID{}
	productIDs := []primitive.ObjectID{}
	for _, msg := range messages {
		senderIDs = append(senderIDs, msg.Sender)
		if msg.Product != nil {
			productIDs = append(productIDs, *msg.Product)
		}
	}

	senders, err := userSummaries(ctx, mc.UserCollection, senderIDs)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	products, err := cropSummaries(ctx, mc.CropCollection, productIDs)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	for i := range messages {
		if summary, ok := senders[messages[i].Sender]; ok {
			messages[i].SenderInfo = &summary
		}
		if messages[i].Product != nil {
			if summary, ok := products[*messages[i].Product]; ok {
				messages[i].ProductInfo = &summary
			}
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// GetUnreadCount returns how many received messages are unread
func (mc *MessageController) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.UserFromContext(r)
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	count, err := mc.MessageCollection.CountDocuments(ctx, bson.M{"receiver": userID, "read": false})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"unread": count})
}

// MarkAllRead marks every unread message in the inbox as read
func (mc *MessageController) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.UserFromContext(r)
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = mc.MessageCollection.UpdateMany(ctx,
		bson.M{"receiver": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Messages marked as read"})
}

// MarkOneRead marks a single received message as read, leaving the rest
// of the inbox untouched
func (mc *MessageController) MarkOneRead(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.UserFromContext(r)
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := mux.Vars(r)
	messageID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid message ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := mc.MessageCollection.UpdateOne(ctx,
		bson.M{"_id": messageID, "receiver": userID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "Message not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Message marked as read"})
}
