package addresses

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
	"go.mongodb.org/mongo-driver/bson"
)

// maxSavedAddresses caps the reusable address book per user.
const maxSavedAddresses = 4

// ListAddresses returns the user's saved addresses.
func ListAddresses(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cursor, err := db.SavedAddressCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		log.Println("ListAddresses Find error:", err)
		http.Error(w, "Could not retrieve addresses", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var addrs []models.Address
	if err := cursor.All(ctx, &addrs); err != nil {
		log.Println("ListAddresses cursor.All error:", err)
		http.Error(w, "Error reading address data", http.StatusInternalServerError)
		return
	}
	if len(addrs) == 0 {
		addrs = []models.Address{}
	}

	utils.RespondWithJSON(w, http.StatusOK, addrs)
}

// SaveAddress adds a saved address, enforcing the per-user cap.
func SaveAddress(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var addr models.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := addr.Validate(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	count, err := db.SavedAddressCollection.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		log.Println("SaveAddress count error:", err)
		http.Error(w, "Could not save address", http.StatusInternalServerError)
		return
	}
	if count >= maxSavedAddresses {
		utils.RespondWithError(w, http.StatusBadRequest, "You can only save up to 4 addresses")
		return
	}

	addr.AddressID = utils.GetUUID()
	addr.UserID = userID
	addr.OrderID = ""
	addr.CreatedAt = time.Now()

	if _, err := db.SavedAddressCollection.InsertOne(ctx, addr); err != nil {
		log.Println("SaveAddress InsertOne error:", err)
		http.Error(w, "Could not save address", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, addr)
}

// UpdateAddress replaces a saved address by id.
func UpdateAddress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var addr models.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := addr.Validate(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := db.SavedAddressCollection.UpdateOne(ctx,
		bson.M{"addressid": ps.ByName("addressid"), "userId": userID},
		bson.M{"$set": bson.M{
			"name":       addr.Name,
			"phone":      addr.Phone,
			"address":    addr.Street,
			"city":       addr.City,
			"state":      addr.State,
			"postalCode": addr.PostalCode,
			"country":    addr.Country,
		}},
	)
	if err != nil {
		log.Println("UpdateAddress error:", err)
		http.Error(w, "Could not update address", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Address not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteAddress removes a saved address by id.
func DeleteAddress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := db.SavedAddressCollection.DeleteOne(ctx, bson.M{
		"addressid": ps.ByName("addressid"),
		"userId":    userID,
	}); err != nil {
		log.Println("DeleteAddress error:", err)
		http.Error(w, "Could not delete address", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
