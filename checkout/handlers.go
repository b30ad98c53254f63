package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"veloura/models"
	"veloura/payments"
	"veloura/rdx"
	"veloura/utils"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"
)

// lockTTL bounds the per-user lock held across an order commit.
const lockTTL = 15 * time.Second

// Handler exposes the checkout flow over HTTP. All state lives in the session
// store and the database; the handler itself is stateless.
type Handler struct {
	sessions     SessionStore
	orchestrator *Orchestrator
	store        Store
}

func NewHandler(sessions SessionStore, orchestrator *Orchestrator, store Store) *Handler {
	return &Handler{sessions: sessions, orchestrator: orchestrator, store: store}
}

// ConfigFromEnv reads the COD city allow-list. The eligible cities are a
// deployment decision, not code.
func ConfigFromEnv() Config {
	var cities []string
	for _, c := range strings.Split(os.Getenv("COD_CITIES"), ",") {
		if c = strings.TrimSpace(c); c != "" {
			cities = append(cities, c)
		}
	}
	return Config{CODCities: cities}
}

// Start snapshots the cart and opens a session at the address stage.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	lines, err := h.store.FetchCartLines(r.Context(), userID)
	if err != nil {
		log.Println("Start checkout fetch error:", err)
		http.Error(w, "Could not load cart", http.StatusInternalServerError)
		return
	}
	if len(lines) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	session := &Session{
		UserID:    userID,
		Stage:     StageSelectingAddress,
		Lines:     lines,
		StartedAt: time.Now(),
	}
	if err := h.sessions.Save(session); err != nil {
		log.Println("Start checkout save error:", err)
		http.Error(w, "Could not start checkout", http.StatusInternalServerError)
		return
	}

	h.respondSession(w, session)
}

// Get returns the current session with its pricing breakdown.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	h.respondSession(w, session)
}

// SelectAddress records the delivery address on the session.
func (h *Handler) SelectAddress(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var addr models.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := session.SelectAddress(addr); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.sessions.Save(session); err != nil {
		http.Error(w, "Could not save session", http.StatusInternalServerError)
		return
	}
	h.respondSession(w, session)
}

// Next advances the state machine one stage.
func (h *Handler) Next(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.step(w, r, (*Session).Next)
}

// Back moves the state machine one stage backward.
func (h *Handler) Back(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.step(w, r, (*Session).Back)
}

func (h *Handler) step(w http.ResponseWriter, r *http.Request, move func(*Session) error) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if err := move(session); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.sessions.Save(session); err != nil {
		http.Error(w, "Could not save session", http.StatusInternalServerError)
		return
	}
	h.respondSession(w, session)
}

// PlaceOrder commits the order for the active session.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if session.Stage != StageAwaitingPayment {
		utils.RespondWithError(w, http.StatusBadRequest, ErrNotAtPayment.Error())
		return
	}
	if session.Address == nil {
		utils.RespondWithError(w, http.StatusBadRequest, ErrNoAddress.Error())
		return
	}

	var body struct {
		PaymentMethod    string                 `json:"paymentMethod"`
		PaymentReference string                 `json:"paymentReference"`
		Confirmation     *payments.Confirmation `json:"confirmation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	// One commit at a time per user; a double-submit waits out the lock.
	acquired, err := rdx.RdxSetNX("checkout_lock:"+session.UserID, "1", lockTTL)
	if err != nil || !acquired {
		http.Error(w, "please retry", http.StatusTooManyRequests)
		return
	}
	defer rdx.RdxDel("checkout_lock:" + session.UserID)

	order, err := h.orchestrator.PlaceOrder(r.Context(), PlaceOrderRequest{
		UserID:           session.UserID,
		Address:          *session.Address,
		PaymentMethod:    body.PaymentMethod,
		PaymentReference: body.PaymentReference,
		Confirmation:     body.Confirmation,
	})
	if err != nil {
		h.respondPlaceOrderError(w, err)
		return
	}

	session.Stage = StageConfirmed
	session.PaymentMethod = body.PaymentMethod
	if err := h.sessions.Save(session); err != nil {
		// The order is committed; a session write failure must not report
		// a placement failure.
		log.Println("PlaceOrder session save error:", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"order":   order,
	})
}

func (h *Handler) respondPlaceOrderError(w http.ResponseWriter, err error) {
	var pErr *PersistenceError
	var gErr *payments.GatewayError
	switch {
	case errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrShortReference),
		errors.Is(err, ErrCODNotAvailable),
		errors.Is(err, ErrUnknownPaymentMode),
		errors.Is(err, models.ErrInvalidAddress),
		errors.Is(err, payments.ErrMissingFields):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, payments.ErrVerificationFailed):
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"success": false, "error": "Payment verification failed."})
	case errors.As(err, &gErr):
		log.Println("PlaceOrder gateway error:", err)
		utils.RespondWithError(w, http.StatusBadGateway, "Payment gateway unavailable")
	case errors.As(err, &pErr):
		log.Println("PlaceOrder commit error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Order placement failed")
	default:
		log.Println("PlaceOrder error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Order placement failed")
	}
}

// UPIQR renders a payment QR for the session total as a upi://pay URI.
func (h *Handler) UPIQR(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	vpa := os.Getenv("UPI_VPA")
	if vpa == "" {
		http.Error(w, "UPI not configured", http.StatusServiceUnavailable)
		return
	}

	totals := ComputeTotals(session.Lines)
	// upi amount is in rupees with paise as decimals
	amount := fmt.Sprintf("%d.%02d", totals.TotalPrice/100, totals.TotalPrice%100)
	uri := fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=INR",
		url.QueryEscape(vpa), url.QueryEscape("Veloura"), amount)

	png, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	session, err := h.sessions.Load(userID)
	if err != nil {
		if errors.Is(err, ErrSessionMissing) {
			utils.RespondWithError(w, http.StatusNotFound, "No active checkout session")
		} else {
			log.Println("Load session error:", err)
			http.Error(w, "Could not load session", http.StatusInternalServerError)
		}
		return nil, false
	}
	return session, true
}

func (h *Handler) respondSession(w http.ResponseWriter, s *Session) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"session": s,
		"stage":   s.Stage.String(),
		"totals":  ComputeTotals(s.Lines),
	})
}
