package repo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/practicemap/practicemap/pkg/catalog"
	"github.com/practicemap/practicemap/pkg/errors"
	"github.com/practicemap/practicemap/pkg/tree"
)

// catalogCollection is the collection holding one document per catalog.
const catalogCollection = "catalogs"

// catalogDocument is the stored shape of a catalog.
type catalogDocument struct {
	Name    string          `bson:"name"`
	Catalog catalog.Catalog `bson:"catalog"`
}

// MongoRepository serves a catalog stored in MongoDB.
//
// The catalog is fetched wholesale at construction, validated, and served
// from the in-memory snapshot exactly like the file backend; Mongo is only
// touched again on Reload. This matches the catalog's lifecycle: small,
// static, read-only for the session.
type MongoRepository struct {
	client *mongo.Client
	db     string
	name   string
	snap   *snapshot
}

// NewMongoRepository connects to MongoDB at uri and loads the named catalog
// from the given database.
func NewMongoRepository(ctx context.Context, uri, db, name string) (*MongoRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	r := &MongoRepository{client: client, db: db, name: name}
	if err := r.Reload(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return r, nil
}

// ConnectMongo connects without loading a catalog. Used when publishing a
// catalog that may not exist yet; serving requires NewMongoRepository.
func ConnectMongo(ctx context.Context, uri, db, name string) (*MongoRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	return &MongoRepository{client: client, db: db, name: name}, nil
}

// Reload re-fetches and re-validates the catalog document.
func (r *MongoRepository) Reload(ctx context.Context) error {
	coll := r.client.Database(r.db).Collection(catalogCollection)

	var doc catalogDocument
	err := coll.FindOne(ctx, bson.M{"name": r.name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return errors.New(errors.ErrCodeNotFound, "catalog %q not found in database %s", r.name, r.db)
	}
	if err != nil {
		return fmt.Errorf("fetch catalog %q: %w", r.name, err)
	}

	c := &doc.Catalog
	if result := catalog.Validate(c); !result.Valid {
		return errors.New(errors.ErrCodeInvalidCatalog, "catalog %q has %d validation errors", r.name, len(result.Errors))
	}
	r.snap = &snapshot{catalog: c, hash: c.Hash()}
	return nil
}

// Store upserts a catalog document, validating it first. Used by the CLI to
// publish an authored catalog file into a hosted deployment.
func (r *MongoRepository) Store(ctx context.Context, c *catalog.Catalog) error {
	if result := catalog.Validate(c); !result.Valid {
		return errors.New(errors.ErrCodeInvalidCatalog, "refusing to store catalog with %d validation errors", len(result.Errors))
	}

	coll := r.client.Database(r.db).Collection(catalogCollection)
	opts := options.Replace().SetUpsert(true)
	doc := catalogDocument{Name: r.name, Catalog: *c}
	if _, err := coll.ReplaceOne(ctx, bson.M{"name": r.name}, doc, opts); err != nil {
		return fmt.Errorf("store catalog %q: %w", r.name, err)
	}
	r.snap = &snapshot{catalog: c, hash: c.Hash()}
	return nil
}

// Catalog returns the current snapshot.
func (r *MongoRepository) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	return r.snap.catalog, nil
}

// PracticeTree materializes the tree rooted at rootID.
// Returns (nil, nil) for an unknown root.
func (r *MongoRepository) PracticeTree(ctx context.Context, rootID string) (*tree.Node, error) {
	return tree.Build(r.snap.catalog, rootID), nil
}

// FindByID returns the practice with the given ID, or (nil, nil) if absent.
func (r *MongoRepository) FindByID(ctx context.Context, id string) (*catalog.Practice, error) {
	return r.snap.catalog.Find(id), nil
}

// Hash returns the content hash of the current snapshot.
func (r *MongoRepository) Hash(ctx context.Context) (string, error) {
	return r.snap.hash, nil
}

// Close disconnects from MongoDB.
func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// Ensure MongoRepository implements Repository.
var _ Repository = (*MongoRepository)(nil)
