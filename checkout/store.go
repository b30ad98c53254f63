package checkout

import (
	"context"

	"veloura/db"
	"veloura/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoStore implements Store against the shared Mongo collections. The order
// commit runs as a multi-document transaction so a failure at any step leaves
// no partial rows behind.
type mongoStore struct {
	client *mongo.Client
}

// NewMongoStore returns the production Store.
func NewMongoStore() Store {
	return &mongoStore{client: db.Client}
}

func (s *mongoStore) FetchCartLines(ctx context.Context, userID string) ([]models.CheckoutLine, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "productId",
			"foreignField": "productid",
			"as":           "product",
		}}},
		{{Key: "$unwind", Value: "$product"}},
		{{Key: "$project", Value: bson.M{"product": 1, "quantity": 1}}},
	}

	cursor, err := db.CartCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var lines []models.CheckoutLine
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *mongoStore) CommitOrder(ctx context.Context, order models.Order, addr models.Address, items []models.OrderItem) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := db.OrderCollection.InsertOne(sc, order); err != nil {
			return nil, err
		}
		if _, err := db.AddressCollection.InsertOne(sc, addr); err != nil {
			return nil, err
		}
		docs := make([]interface{}, 0, len(items))
		for _, item := range items {
			docs = append(docs, item)
		}
		if _, err := db.OrderItemsCollection.InsertMany(sc, docs); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

func (s *mongoStore) ClearCart(ctx context.Context, userID string) error {
	_, err := db.CartCollection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}
