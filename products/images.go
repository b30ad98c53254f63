package products

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"veloura/db"
	"veloura/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const productPicDir = "static/productpic"

// UploadProductImage stores a product image and a 300px thumbnail, then
// records both paths on the product. Admin only.
func UploadProductImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		http.Error(w, "Failed to decode image", http.StatusBadRequest)
		return
	}

	uniqueID := utils.GenerateRandomString(16)
	fileName := uniqueID + ".jpg"
	thumbDir := filepath.Join(productPicDir, "thumb")

	for _, dir := range []string{productPicDir, thumbDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Println("UploadProductImage mkdir error:", err)
			http.Error(w, "Failed to store image", http.StatusInternalServerError)
			return
		}
	}

	if err := imaging.Save(img, filepath.Join(productPicDir, fileName)); err != nil {
		log.Println("UploadProductImage save error:", err)
		http.Error(w, "Failed to store image", http.StatusInternalServerError)
		return
	}

	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(thumbDir, fileName)); err != nil {
		log.Println("UploadProductImage thumbnail error:", err)
		http.Error(w, "Failed to store thumbnail", http.StatusInternalServerError)
		return
	}

	imageURL := "/static/productpic/" + fileName
	thumbURL := "/static/productpic/thumb/" + fileName

	res, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productid": productID},
		bson.M{"$set": bson.M{"imageurl": imageURL, "thumburl": thumbURL, "updatedat": time.Now()}},
	)
	if err != nil {
		log.Println("UploadProductImage update error:", err)
		http.Error(w, "Failed to record image", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"imageurl": imageURL,
		"thumburl": thumbURL,
	})
}
