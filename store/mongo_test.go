package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	models "shopfront/model"
)

func productDoc(id primitive.ObjectID, title string, price float64) bson.D {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: title},
		{Key: "description", Value: "desc"},
		{Key: "imgSrc", Value: "/img.jpg"},
		{Key: "price", Value: price},
		{Key: "createdAt", Value: now},
		{Key: "updatedAt", Value: now},
	}
}

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("insert one", func(mt *mtest.T) {
		s := NewMongoStoreFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		p, err := s.InsertOne(ctx, models.ProductInput{Title: "Honey", Description: "raw", ImgSrc: "/h.jpg", Price: 250})
		if err != nil {
			mt.Fatalf("InsertOne: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(p.ID); err != nil {
			mt.Fatalf("expected ObjectID hex id, got %q", p.ID)
		}
	})

	mt.Run("insert many", func(mt *mtest.T) {
		s := NewMongoStoreFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		out, err := s.InsertMany(ctx, []models.ProductInput{
			{Title: "A", Description: "d", ImgSrc: "i", Price: 10},
			{Title: "B", Description: "d", ImgSrc: "i", Price: 20},
		})
		if err != nil {
			mt.Fatalf("InsertMany: %v", err)
		}
		if len(out) != 2 || out[0].ID == out[1].ID {
			mt.Fatalf("unexpected result: %+v", out)
		}
	})

	mt.Run("insert many failure compensates", func(mt *mtest.T) {
		s := NewMongoStoreFromCollection(mt.Coll)
		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 1, Code: 11000, Message: "duplicate key"}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		out, err := s.InsertMany(ctx, []models.ProductInput{
			{Title: "A", Description: "d", ImgSrc: "i", Price: 10},
			{Title: "B", Description: "d", ImgSrc: "i", Price: 20},
		})
		if err == nil {
			mt.Fatalf("expected write error")
		}
		if out != nil {
			mt.Fatalf("expected no products, got %+v", out)
		}
	})

	mt.Run("find all", func(mt *mtest.T) {
		s := NewMongoStoreFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			productDoc(primitive.NewObjectID(), "Honey", 250),
			productDoc(primitive.NewObjectID(), "Ghee", 600),
		))

		got, err := s.FindAll(ctx)
		if err != nil {
			mt.Fatalf("FindAll: %v", err)
		}
		if len(got) != 2 || got[0].Title != "Honey" || got[1].Price != 600 {
			mt.Fatalf("unexpected products: %+v", got)
		}
	})

	mt.Run("find by id", func(mt *mtest.T) {
		s := NewMongoStoreFromCollection(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, productDoc(id, "Honey", 250)))

		p, err := s.FindByID(ctx, id.Hex())
		if err != nil {
			mt.Fatalf("FindByID: %v", err)
		}
		if p.ID != id.Hex() || p.ImgSrc != "/img.jpg" {
			mt.Fatalf("unexpected product: %+v", p)
		}
	})

	mt.Run("find by id missing", func(mt *mtest.T) {
		s := NewMongoStoreFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		if _, err := s.FindByID(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("malformed id is not found", func(mt *mtest.T) {
		s := NewMongoStoreFromCollection(mt.Coll)

		if _, err := s.FindByID(ctx, "not-an-object-id"); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
		if err := s.DeleteByID(ctx, "not-an-object-id"); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("update by id", func(mt *mtest.T) {
		s := NewMongoStoreFromCollection(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: productDoc(id, "Honey", 99)},
		})

		price := 99.0
		p, err := s.UpdateByID(ctx, id.Hex(), models.ProductPatch{Price: &price})
		if err != nil {
			mt.Fatalf("UpdateByID: %v", err)
		}
		if p.Price != 99 || p.Title != "Honey" {
			mt.Fatalf("unexpected product: %+v", p)
		}
	})

	mt.Run("delete by id missing", func(mt *mtest.T) {
		s := NewMongoStoreFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		if err := s.DeleteByID(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("delete by id", func(mt *mtest.T) {
		s := NewMongoStoreFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		if err := s.DeleteByID(ctx, primitive.NewObjectID().Hex()); err != nil {
			mt.Fatalf("DeleteByID: %v", err)
		}
	})

	mt.Run("count", func(mt *mtest.T) {
		s := NewMongoStoreFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "n", Value: int64(4)}},
		))

		n, err := s.Count(ctx)
		if err != nil {
			mt.Fatalf("Count: %v", err)
		}
		if n != 4 {
			mt.Fatalf("expected 4, got %d", n)
		}
	})
}
