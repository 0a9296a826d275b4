package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"hotel_directory/internal/adapters/observability"
	"hotel_directory/internal/domain"
)

const backend = "mongo"

// hotelDoc is the stored shape; keys match the JSON field names.
type hotelDoc struct {
	ID                    bson.ObjectID `bson:"_id,omitempty"`
	Name                  *string       `bson:"name,omitempty"`
	Category              *string       `bson:"category,omitempty"`
	PriceRange            any           `bson:"priceRange,omitempty"`
	Rating                *float64      `bson:"rating,omitempty"`
	PhoneNumber           *string       `bson:"phoneNumber,omitempty"`
	IsParkingAvailable    *bool         `bson:"isParkingAvailable,omitempty"`
	IsRestaurantAvailable *bool         `bson:"isRestaurantAvailable,omitempty"`
}

func toDoc(h domain.Hotel) hotelDoc {
	return hotelDoc{
		Name:                  h.Name,
		Category:              h.Category,
		PriceRange:            h.PriceRange,
		Rating:                h.Rating,
		PhoneNumber:           h.PhoneNumber,
		IsParkingAvailable:    h.IsParkingAvailable,
		IsRestaurantAvailable: h.IsRestaurantAvailable,
	}
}

func (d hotelDoc) toHotel() domain.Hotel {
	return domain.Hotel{
		ID:                    d.ID.Hex(),
		Name:                  d.Name,
		Category:              d.Category,
		PriceRange:            plain(d.PriceRange),
		Rating:                d.Rating,
		PhoneNumber:           d.PhoneNumber,
		IsParkingAvailable:    d.IsParkingAvailable,
		IsRestaurantAvailable: d.IsRestaurantAvailable,
	}
}

// plain converts embedded documents and arrays decoded into an interface
// back to maps and slices so they encode as JSON objects and arrays.
func plain(v any) any {
	switch t := v.(type) {
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plain(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]any, len(t))
		for k, x := range t {
			m[k] = plain(x)
		}
		return m
	case bson.A:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = plain(x)
		}
		return out
	}
	return v
}

type Repo struct{ coll *mongo.Collection }

func New(db *mongo.Database, collection string) *Repo {
	return &Repo{coll: db.Collection(collection)}
}

// Connect dials uri and verifies the connection with a ping.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client.Database(dbName), nil
}

// EnsureIndexes creates the single-field indexes used by the lookup routes.
func (r *Repo) EnsureIndexes(ctx context.Context) ([]string, error) {
	models := make([]mongo.IndexModel, 0, 4)
	for _, f := range []domain.Field{domain.FieldName, domain.FieldCategory, domain.FieldRating, domain.FieldPhoneNumber} {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: string(f), Value: 1}},
			Options: options.Index().SetName("idx_" + string(f)),
		})
	}
	names, err := r.coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return nil, fmt.Errorf("mongo create indexes: %w", err)
	}
	return names, nil
}

func (r *Repo) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}

func (r *Repo) Create(ctx context.Context, h domain.Hotel) (out domain.Hotel, err error) {
	defer observe("create", time.Now(), &err)

	doc := toDoc(h)
	doc.ID = bson.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.Hotel{}, fmt.Errorf("mongo insert: %w", err)
	}
	return doc.toHotel(), nil
}

func (r *Repo) Find(ctx context.Context, f domain.Filter) (out []domain.Hotel, err error) {
	defer observe("find", time.Now(), &err)

	cur, err := r.coll.Find(ctx, filterDoc(f), options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var docs []hotelDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo cursor decode: %w", err)
	}
	out = make([]domain.Hotel, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toHotel())
	}
	return out, nil
}

func (r *Repo) UpdateByID(ctx context.Context, id string, patch domain.Hotel) (out domain.Hotel, err error) {
	defer observe("update_by_id", time.Now(), &err)

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return r.updateOne(ctx, bson.D{{Key: "_id", Value: oid}}, patch)
}

func (r *Repo) UpdateOne(ctx context.Context, f domain.Filter, patch domain.Hotel) (out domain.Hotel, err error) {
	defer observe("update_one", time.Now(), &err)
	return r.updateOne(ctx, filterDoc(f), patch)
}

func (r *Repo) DeleteByID(ctx context.Context, id string) (out domain.Hotel, err error) {
	defer observe("delete_by_id", time.Now(), &err)

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return r.deleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *Repo) DeleteOne(ctx context.Context, f domain.Filter) (out domain.Hotel, err error) {
	defer observe("delete_one", time.Now(), &err)
	return r.deleteOne(ctx, filterDoc(f))
}

// updateOne applies patch with $set and returns the post-update document.
// An empty patch reads the current document instead, since $set rejects an
// empty document.
func (r *Repo) updateOne(ctx context.Context, filter bson.D, patch domain.Hotel) (domain.Hotel, error) {
	set := bson.D{}
	for _, fv := range patch.SetFields() {
		set = append(set, bson.E{Key: string(fv.Field), Value: fv.Value})
	}

	var doc hotelDoc
	var res *mongo.SingleResult
	if len(set) == 0 {
		res = r.coll.FindOne(ctx, filter, options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}}))
	} else {
		opts := options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetSort(bson.D{{Key: "_id", Value: 1}})
		res = r.coll.FindOneAndUpdate(ctx, filter, bson.D{{Key: "$set", Value: set}}, opts)
	}
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, fmt.Errorf("mongo update: %w", err)
	}
	return doc.toHotel(), nil
}

func (r *Repo) deleteOne(ctx context.Context, filter bson.D) (domain.Hotel, error) {
	var doc hotelDoc
	opts := options.FindOneAndDelete().SetSort(bson.D{{Key: "_id", Value: 1}})
	if err := r.coll.FindOneAndDelete(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, fmt.Errorf("mongo delete: %w", err)
	}
	return doc.toHotel(), nil
}

func filterDoc(f domain.Filter) bson.D {
	if f.IsZero() {
		return bson.D{}
	}
	return bson.D{{Key: string(f.Field), Value: f.Value}}
}

func observe(op string, start time.Time, err *error) {
	observability.ObserveStore(backend, op, *err, time.Since(start))
}
