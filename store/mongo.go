package store

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	models "shopfront/model"
)

type productDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	ImgSrc      string             `bson:"imgSrc"`
	Price       float64            `bson:"price"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d productDocument) product() models.Product {
	return models.Product{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		ImgSrc:      d.ImgSrc,
		Price:       d.Price,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func newDocument(in models.ProductInput, now time.Time) productDocument {
	return productDocument{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Description: in.Description,
		ImgSrc:      in.ImgSrc,
		Price:       in.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MongoStore is a Store backed by a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore connects to uri and uses database.collection for products.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "ping")
	}
	return &MongoStore{client: client, coll: client.Database(database).Collection(collection)}, nil
}

// NewMongoStoreFromCollection uses an existing collection handle. Close is a
// no-op for stores built this way.
func NewMongoStoreFromCollection(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) InsertOne(ctx context.Context, in models.ProductInput) (models.Product, error) {
	doc := newDocument(in, time.Now().UTC().Truncate(time.Millisecond))
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return models.Product{}, err
	}
	return doc.product(), nil
}

// InsertMany inserts the batch. The collection has no multi-document
// transaction here, so a failed batch is compensated by deleting every id
// that was assigned to it.
func (s *MongoStore) InsertMany(ctx context.Context, in []models.ProductInput) ([]models.Product, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]interface{}, 0, len(in))
	ids := make([]primitive.ObjectID, 0, len(in))
	out := make([]models.Product, 0, len(in))
	for _, item := range in {
		doc := newDocument(item, now)
		docs = append(docs, doc)
		ids = append(ids, doc.ID)
		out = append(out, doc.product())
	}

	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		if _, delErr := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); delErr != nil {
			return nil, errors.Wrapf(err, "insert many (compensation failed: %v)", delErr)
		}
		return nil, errors.Wrap(err, "insert many")
	}
	return out, nil
}

func (s *MongoStore) FindAll(ctx context.Context) ([]models.Product, error) {
	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.product())
	}
	return out, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, ErrNotFound
	}
	var doc productDocument
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return doc.product(), nil
}

func (s *MongoStore) UpdateByID(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, ErrNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC().Truncate(time.Millisecond)}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.ImgSrc != nil {
		set["imgSrc"] = *patch.ImgSrc
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc productDocument
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return doc.product(), nil
}

func (s *MongoStore) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.D{})
}
