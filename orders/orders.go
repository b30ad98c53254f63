package orders

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"veloura/db"
	"veloura/models"
	"veloura/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderWithItems is an order joined with its item snapshots and the address
// it was shipped to.
type OrderWithItems struct {
	Order   models.Order       `json:"order"`
	Items   []models.OrderItem `json:"items"`
	Address *models.Address    `json:"address,omitempty"`
}

// MyOrders returns the logged-in user's orders, newest first, paginated.
func MyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}

	findOptions := options.Find().
		SetSort(bson.M{"createdat": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cursor, err := db.OrderCollection.Find(ctx, bson.M{"userid": userID}, findOptions)
	if err != nil {
		log.Println("MyOrders Find error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var result []models.Order
	if err := cursor.All(ctx, &result); err != nil {
		log.Println("MyOrders cursor.All error:", err)
		http.Error(w, "Error reading order data", http.StatusInternalServerError)
		return
	}
	if len(result) == 0 {
		result = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"orders": result})
}

// GetOrder returns one of the user's orders with items and shipping address.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	full, err := loadOrder(ctx, ps.ByName("orderid"), userID)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("GetOrder error:", err)
		http.Error(w, "Could not retrieve order", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, full)
}

// loadOrder fetches an order with its items and address snapshot. userID ""
// skips the ownership filter (admin paths).
func loadOrder(ctx context.Context, orderID, userID string) (*OrderWithItems, error) {
	filter := bson.M{"orderid": orderID}
	if userID != "" {
		filter["userid"] = userID
	}

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, filter).Decode(&order); err != nil {
		return nil, err
	}

	cursor, err := db.OrderItemsCollection.Find(ctx, bson.M{"orderid": orderID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}

	full := &OrderWithItems{Order: order, Items: items}

	var addr models.Address
	if err := db.AddressCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&addr); err == nil {
		full.Address = &addr
	}

	return full, nil
}
