package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"veloura/db"
	"veloura/middleware"
	"veloura/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// allow all origins; lock down in production
		return true
	},
}

var (
	subscribers = make(map[string][]*websocket.Conn)
	mu          sync.Mutex
)

// lookupOrderUser returns the owning user id for an order. Overridden in tests.
var lookupOrderUser = func(ctx context.Context, orderID string) (string, error) {
	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order); err != nil {
		return "", err
	}
	return order.UserID, nil
}

func hasRole(roles []string, want string) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}

// TrackOrder subscribes a client to live status updates for an order. The
// token arrives in the Authorization header or, for browser WebSocket clients
// that cannot set headers, a token query param. Only the order's owner or an
// admin may subscribe.
func TrackOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	orderID := ps.ByName("orderid")

	tokenString := r.Header.Get("Authorization")
	if tokenString == "" {
		tokenString = "Bearer " + r.URL.Query().Get("token")
	}
	claims, err := middleware.ValidateJWT(tokenString)
	if err != nil || claims.UserID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	ownerID, err := lookupOrderUser(ctx, orderID)
	cancel()
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if ownerID != claims.UserID && !hasRole(claims.Role, "admin") {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	mu.Lock()
	subscribers[orderID] = append(subscribers[orderID], conn)
	mu.Unlock()

	for {
		// keeps the connection alive until the client disconnects
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	mu.Lock()
	conns := subscribers[orderID]
	newList := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			newList = append(newList, c)
		}
	}
	subscribers[orderID] = newList
	mu.Unlock()

	conn.Close()
}

// StatusUpdate is the payload pushed when an order's status changes.
type StatusUpdate struct {
	OrderID       string `json:"orderId"`
	Status        string `json:"status"`
	ProgressStep  int    `json:"progressStep"`
	PaymentStatus string `json:"paymentStatus"`
}

// BroadcastStatus pushes an update to all trackers of an order.
func BroadcastStatus(update StatusUpdate) {
	data, err := json.Marshal(update)
	if err != nil {
		log.Println("BroadcastStatus marshal error:", err)
		return
	}

	mu.Lock()
	defer mu.Unlock()

	conns := subscribers[update.OrderID]
	newList := conns[:0]
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}
	subscribers[update.OrderID] = newList
}
