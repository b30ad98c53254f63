package addresses

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"veloura/utils"

	"github.com/julienschmidt/httprouter"
)

// pincodeTimeout bounds the lookup; a slow upstream must not block address
// entry, the user can always type city and state by hand.
const pincodeTimeout = 5 * time.Second

func pincodeBaseURL() string {
	if u := os.Getenv("PINCODE_API"); u != "" {
		return u
	}
	return "https://api.postalpincode.in"
}

// LookupPincode resolves an Indian postal code to city/state/country for
// address auto-fill. Failures are non-fatal by contract.
func LookupPincode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := ps.ByName("code")
	if len(code) != 6 {
		utils.RespondWithError(w, http.StatusBadRequest, "Pincode must be 6 digits")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), pincodeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pincodeBaseURL()+"/pincode/"+code, nil)
	if err != nil {
		http.Error(w, "Lookup failed", http.StatusInternalServerError)
		return
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Println("LookupPincode upstream error:", err)
		utils.RespondWithError(w, http.StatusBadGateway, "Pincode lookup unavailable")
		return
	}
	defer resp.Body.Close()

	var payload []struct {
		Status     string `json:"Status"`
		PostOffice []struct {
			District string `json:"District"`
			State    string `json:"State"`
			Country  string `json:"Country"`
		} `json:"PostOffice"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil ||
		len(payload) == 0 || payload[0].Status != "Success" || len(payload[0].PostOffice) == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Pincode not found")
		return
	}

	po := payload[0].PostOffice[0]
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"city":    po.District,
		"state":   po.State,
		"country": po.Country,
	})
}
