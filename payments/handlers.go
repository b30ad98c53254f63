package payments

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"veloura/utils"

	"github.com/julienschmidt/httprouter"
)

// Gateway is the surface the HTTP handlers need from the payment provider.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error)
	VerifySignature(conf Confirmation) error
}

// Handler exposes the payment backend endpoints.
type Handler struct {
	gw Gateway
}

func NewHandler(gw Gateway) *Handler {
	return &Handler{gw: gw}
}

// CreateOrder handles POST /api/create-order. The request carries the amount
// in whole rupees; the gateway wants minor units.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Receipt  string `json:"receipt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Amount <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid amount")
		return
	}
	if body.Currency == "" {
		body.Currency = "INR"
	}
	if body.Receipt == "" {
		body.Receipt = "receipt_" + utils.GenerateRandomString(12)
	}

	order, err := h.gw.CreateOrder(r.Context(), body.Amount*100, body.Currency, body.Receipt)
	if err != nil {
		log.Println("CreateOrder gateway error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

// VerifyPayment handles POST /api/verify-payment.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var conf Confirmation
	if err := json.NewDecoder(r.Body).Decode(&conf); err != nil {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"success": false, "error": "Invalid JSON payload"})
		return
	}

	switch err := h.gw.VerifySignature(conf); {
	case err == nil:
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Payment verified successfully."})
	case errors.Is(err, ErrMissingFields):
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"success": false, "error": "Missing required fields"})
	case errors.Is(err, ErrVerificationFailed):
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"success": false, "error": "Payment verification failed."})
	default:
		log.Println("VerifyPayment error:", err)
		utils.RespondWithJSON(w, http.StatusInternalServerError, utils.M{"success": false, "error": "Verification error."})
	}
}
