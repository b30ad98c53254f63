package admin

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"veloura/db"
	"veloura/models"
	"veloura/orders"
	"veloura/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListOrders returns all orders, newest first, paginated.
func ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	findOptions := options.Find().
		SetSort(bson.M{"createdat": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cursor, err := db.OrderCollection.Find(ctx, filter, findOptions)
	if err != nil {
		log.Println("ListOrders Find error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var result []models.Order
	if err := cursor.All(ctx, &result); err != nil {
		log.Println("ListOrders cursor.All error:", err)
		http.Error(w, "Error reading order data", http.StatusInternalServerError)
		return
	}
	if len(result) == 0 {
		result = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"orders": result})
}

// UpdateOrder transitions an order's status and/or payment status. The
// progress step is derived from the status, never written.
func UpdateOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID := ps.ByName("orderid")

	var body struct {
		Status        *models.OrderStatus `json:"status"`
		PaymentStatus *string             `json:"paymentStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if body.Status == nil && body.PaymentStatus == nil {
		http.Error(w, "Nothing to update", http.StatusBadRequest)
		return
	}

	var current models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&current); err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		log.Println("UpdateOrder FindOne error:", err)
		http.Error(w, "Could not retrieve order", http.StatusInternalServerError)
		return
	}

	set := bson.M{"updatedat": time.Now()}
	if body.Status != nil {
		if !body.Status.Valid() {
			http.Error(w, "Unknown order status", http.StatusBadRequest)
			return
		}
		if current.Status.Terminal() && *body.Status != current.Status {
			utils.RespondWithError(w, http.StatusConflict, "Order is in a terminal state")
			return
		}
		set["status"] = *body.Status
	}
	if body.PaymentStatus != nil {
		switch *body.PaymentStatus {
		case models.PaymentPending, models.PaymentPaid, models.PaymentFailed:
			set["paymentstatus"] = *body.PaymentStatus
		default:
			http.Error(w, "Unknown payment status", http.StatusBadRequest)
			return
		}
	}

	if _, err := db.OrderCollection.UpdateOne(ctx, bson.M{"orderid": orderID}, bson.M{"$set": set}); err != nil {
		log.Println("UpdateOrder error:", err)
		http.Error(w, "Order update failed", http.StatusInternalServerError)
		return
	}

	status := current.Status
	if body.Status != nil {
		status = *body.Status
	}
	paymentStatus := current.PaymentStatus
	if body.PaymentStatus != nil {
		paymentStatus = *body.PaymentStatus
	}

	orders.BroadcastStatus(orders.StatusUpdate{
		OrderID:       orderID,
		Status:        string(status),
		ProgressStep:  status.ProgressStep(),
		PaymentStatus: paymentStatus,
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
