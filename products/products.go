package products

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
	"go.mongodb.org/mongo-driver/mongo"
)

// GetProducts returns the catalog, optionally filtered by ?fragrance=.
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if f := r.URL.Query().Get("fragrance"); f != "" {
		filter["fragrance"] = f
	}

	cursor, err := db.ProductsCollection.Find(ctx, filter)
	if err != nil {
		log.Println("GetProducts Find error:", err)
		http.Error(w, "Could not retrieve products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		log.Println("GetProducts cursor.All error:", err)
		http.Error(w, "Error reading product data", http.StatusInternalServerError)
		return
	}
	if len(products) == 0 {
		products = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct returns one product by id.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{"productid": ps.ByName("productid")}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("GetProduct FindOne error:", err)
		http.Error(w, "Could not retrieve product", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}

// CreateProduct inserts a catalog entry. Admin only.
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if product.Name == "" || product.OPrice <= 0 || product.Discount < 0 || product.Discount > 100 {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	product.ProductID = utils.GetUUID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	if _, err := db.ProductsCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct InsertOne error:", err)
		http.Error(w, "Product creation failed", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct patches mutable catalog fields. Admin only.
func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var patch struct {
		Name           *string `json:"name"`
		Composition    *string `json:"composition"`
		Description    *string `json:"description"`
		Fragrance      *string `json:"fragrance"`
		FragranceNotes *string `json:"fragranceNotes"`
		OPrice         *int64  `json:"oprice"`
		Discount       *int    `json:"discount"`
		Size           *int    `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	set := bson.M{"updatedat": time.Now()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Composition != nil {
		set["composition"] = *patch.Composition
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Fragrance != nil {
		set["fragrance"] = *patch.Fragrance
	}
	if patch.FragranceNotes != nil {
		set["fragrancenotes"] = *patch.FragranceNotes
	}
	if patch.OPrice != nil {
		if *patch.OPrice <= 0 {
			http.Error(w, "Price must be positive", http.StatusBadRequest)
			return
		}
		set["oprice"] = *patch.OPrice
	}
	if patch.Discount != nil {
		if *patch.Discount < 0 || *patch.Discount > 100 {
			http.Error(w, "Discount must be 0-100", http.StatusBadRequest)
			return
		}
		set["discount"] = *patch.Discount
	}
	if patch.Size != nil {
		set["size"] = *patch.Size
	}

	res, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productid": ps.ByName("productid")},
		bson.M{"$set": set},
	)
	if err != nil {
		log.Println("UpdateProduct error:", err)
		http.Error(w, "Product update failed", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
