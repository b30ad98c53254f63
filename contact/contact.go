package contact

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"veloura/db"
	"veloura/models"
	"veloura/utils"

	"github.com/julienschmidt/httprouter"
)

// SubmitQuery stores a contact-form submission.
func SubmitQuery(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var query models.ContactQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if query.Name == "" || query.Email == "" || query.Message == "" {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	query.CreatedAt = time.Now()
	if _, err := db.ContactQueriesCollection.InsertOne(ctx, query); err != nil {
		log.Println("SubmitQuery InsertOne error:", err)
		http.Error(w, "Failed to submit query", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "received"})
}
