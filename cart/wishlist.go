package cart

import (
	"context"
	"log"
	"net/http"
	"time"

	"veloura/db"
	"veloura/models"
	"veloura/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetWishlist returns the user's wishlist joined with product data.
func GetWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "productId",
			"foreignField": "productid",
			"as":           "product",
		}}},
		{{Key: "$unwind", Value: "$product"}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$product"}}},
	}
	cursor, err := db.WishlistCollection.Aggregate(ctx, pipeline)
	if err != nil {
		log.Println("GetWishlist aggregate error:", err)
		http.Error(w, "Could not retrieve wishlist", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		log.Println("GetWishlist cursor.All error:", err)
		http.Error(w, "Error reading wishlist data", http.StatusInternalServerError)
		return
	}
	if len(products) == 0 {
		products = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, products)
}

// AddToWishlist wishlists a product. Idempotent via upsert.
func AddToWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	req, ok := decodeMutation(w, r)
	if !ok {
		return
	}
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := bson.M{"userId": userID, "productId": req.ProductID}
	update := bson.M{"$setOnInsert": bson.M{"addedAt": time.Now()}}
	if _, err := db.WishlistCollection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		log.Println("AddToWishlist error:", err)
		http.Error(w, "Failed to add to wishlist", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// RemoveFromWishlist deletes a wishlist entry.
func RemoveFromWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	req, ok := decodeMutation(w, r)
	if !ok {
		return
	}
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := db.WishlistCollection.DeleteOne(ctx, bson.M{"userId": userID, "productId": req.ProductID}); err != nil {
		log.Println("RemoveFromWishlist error:", err)
		http.Error(w, "Failed to remove from wishlist", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// MoveToCart moves a wishlist entry into the cart as a quantity-one line.
func MoveToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req, ok := decodeMutation(w, r)
	if !ok {
		return
	}
	withManager(w, r, func(ctx context.Context, m *Manager) error {
		if _, err := db.WishlistCollection.DeleteOne(ctx, bson.M{"userId": utils.GetUserIDFromRequest(r), "productId": req.ProductID}); err != nil {
			return err
		}
		return m.AddLine(ctx, req.ProductID)
	})
}
