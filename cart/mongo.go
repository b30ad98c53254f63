package cart

import (
	"context"
	"time"

	"veloura/db"
	"veloura/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoStore implements Store against the shared collections.
type mongoStore struct {
	client *mongo.Client
}

func NewMongoStore() Store {
	return &mongoStore{client: db.Client}
}

func (s *mongoStore) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	filter := bson.M{"userId": userID, "productId": productID}
	update := bson.M{
		"$set":         bson.M{"quantity": quantity},
		"$setOnInsert": bson.M{"addedAt": time.Now()},
	}
	_, err := db.CartCollection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (s *mongoStore) DeleteLine(ctx context.Context, userID, productID string) error {
	_, err := db.CartCollection.DeleteOne(ctx, bson.M{"userId": userID, "productId": productID})
	return err
}

func (s *mongoStore) MoveToWishlist(ctx context.Context, userID, productID string) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := db.CartCollection.DeleteOne(sc, bson.M{"userId": userID, "productId": productID}); err != nil {
			return nil, err
		}
		item := models.WishlistItem{UserID: userID, ProductID: productID, AddedAt: time.Now()}
		if _, err := db.WishlistCollection.InsertOne(sc, item); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

func (s *mongoStore) Clear(ctx context.Context, userID string) error {
	_, err := db.CartCollection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

// load fetches the user's cart lines and wishlisted product ids.
func load(ctx context.Context, userID string) ([]models.CartLine, []string, error) {
	cursor, err := db.CartCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, nil, err
	}
	defer cursor.Close(ctx)

	var lines []models.CartLine
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, nil, err
	}

	wlCursor, err := db.WishlistCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, nil, err
	}
	defer wlCursor.Close(ctx)

	var items []models.WishlistItem
	if err := wlCursor.All(ctx, &items); err != nil {
		return nil, nil, err
	}
	wishlisted := make([]string, 0, len(items))
	for _, item := range items {
		wishlisted = append(wishlisted, item.ProductID)
	}

	return lines, wishlisted, nil
}
