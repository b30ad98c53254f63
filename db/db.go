package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection           *mongo.Collection
	ProductsCollection       *mongo.Collection
	CartCollection           *mongo.Collection
	WishlistCollection       *mongo.Collection
	OrderCollection          *mongo.Collection
	OrderItemsCollection     *mongo.Collection
	AddressCollection        *mongo.Collection // per-order snapshots
	SavedAddressCollection   *mongo.Collection // reusable address book
	ContactQueriesCollection *mongo.Collection
	Client                   *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("veloura")
	UserCollection = database.Collection("users")
	ProductsCollection = database.Collection("products")
	CartCollection = database.Collection("cart")
	WishlistCollection = database.Collection("wishlist")
	OrderCollection = database.Collection("orders")
	OrderItemsCollection = database.Collection("orderitems")
	AddressCollection = database.Collection("addresses")
	SavedAddressCollection = database.Collection("useraddresses")
	ContactQueriesCollection = database.Collection("queries")
}
