package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"veloura/db"
	"veloura/models"
	"veloura/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var store = NewMongoStore()

// manager builds a Manager over the user's persisted state for one request.
func manager(ctx context.Context, userID string) (*Manager, error) {
	lines, wishlisted, err := load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewManager(userID, store, lines, wishlisted), nil
}

type mutationRequest struct {
	ProductID string `json:"productId"`
	Delta     int    `json:"delta,omitempty"`
}

func decodeMutation(w http.ResponseWriter, r *http.Request) (mutationRequest, bool) {
	var req mutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func withManager(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, m *Manager) error) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	m, err := manager(ctx, userID)
	if err != nil {
		log.Println("cart load error:", err)
		http.Error(w, "Could not load cart", http.StatusInternalServerError)
		return
	}

	if err := fn(ctx, m); err != nil {
		if errors.Is(err, ErrAlreadyWishlisted) {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{
				"status": "unchanged",
				"notice": "Product is already in your wishlist",
				"items":  m.Lines(),
			})
			return
		}
		log.Println("cart mutation error:", err)
		http.Error(w, "Cart update failed", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "ok", "items": m.Lines()})
}

// AddToCart increments quantity if the line exists, or inserts a new line.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req, ok := decodeMutation(w, r)
	if !ok {
		return
	}
	withManager(w, r, func(ctx context.Context, m *Manager) error {
		return m.AddLine(ctx, req.ProductID)
	})
}

// RemoveFromCart deletes the line. No-op when the product is not in the cart.
func RemoveFromCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req, ok := decodeMutation(w, r)
	if !ok {
		return
	}
	withManager(w, r, func(ctx context.Context, m *Manager) error {
		return m.RemoveLine(ctx, req.ProductID)
	})
}

// UpdateQuantity applies a delta to a line's quantity, clamped at one.
func UpdateQuantity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req, ok := decodeMutation(w, r)
	if !ok {
		return
	}
	withManager(w, r, func(ctx context.Context, m *Manager) error {
		return m.UpdateQuantity(ctx, req.ProductID, req.Delta)
	})
}

// MoveToWishlist moves a cart line to the wishlist.
func MoveToWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req, ok := decodeMutation(w, r)
	if !ok {
		return
	}
	withManager(w, r, func(ctx context.Context, m *Manager) error {
		return m.MoveToWishlist(ctx, req.ProductID)
	})
}

// ClearCart removes every line for the user.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	withManager(w, r, func(ctx context.Context, m *Manager) error {
		return m.Clear(ctx)
	})
}

// GetCart returns the user's cart joined with product data for display.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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
		{{Key: "$project", Value: bson.M{"product": 1, "quantity": 1}}},
	}
	cursor, err := db.CartCollection.Aggregate(ctx, pipeline)
	if err != nil {
		log.Println("GetCart aggregate error:", err)
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var items []models.CheckoutLine
	if err := cursor.All(ctx, &items); err != nil {
		log.Println("GetCart cursor.All error:", err)
		http.Error(w, "Error reading cart data", http.StatusInternalServerError)
		return
	}
	if len(items) == 0 {
		items = []models.CheckoutLine{}
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}
