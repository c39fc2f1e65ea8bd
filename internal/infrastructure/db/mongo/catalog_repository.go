package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mealdesk/canteen-api/internal/core/domain"
)

const (
	collectionCompanies = "companies"
	collectionPlaces    = "places"
	collectionLocations = "locations"
)

// CatalogRepository reads the company → place → location hierarchy.
type CatalogRepository struct {
	companies *mongo.Collection
	places    *mongo.Collection
	locations *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{
		companies: db.Collection(collectionCompanies),
		places:    db.Collection(collectionPlaces),
		locations: db.Collection(collectionLocations),
	}
}

type companyDoc struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
}

type placeDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	CompanyID string             `bson:"company_id"`
}

type locationDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	LocationName string             `bson:"location_name"`
	PlaceID      string             `bson:"place_id"`
}

func (r *CatalogRepository) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.companies.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	var docs []companyDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}

	out := make([]domain.Company, len(docs))
	for i, d := range docs {
		out[i] = domain.Company{ID: d.ID.Hex(), Name: d.Name}
	}
	return out, nil
}

func (r *CatalogRepository) FindCompany(ctx context.Context, id string) (*domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCompanyNotFound
	}

	var d companyDoc
	if err := r.companies.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	return &domain.Company{ID: d.ID.Hex(), Name: d.Name}, nil
}

func (r *CatalogRepository) ListPlacesByCompany(ctx context.Context, companyID string) ([]domain.Place, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.places.Find(ctx, bson.M{"company_id": companyID}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	var docs []placeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}

	out := make([]domain.Place, len(docs))
	for i, d := range docs {
		out[i] = domain.Place{ID: d.ID.Hex(), Name: d.Name, CompanyID: d.CompanyID}
	}
	return out, nil
}

func (r *CatalogRepository) ListLocationsByPlace(ctx context.Context, placeID string) ([]domain.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.locations.Find(ctx, bson.M{"place_id": placeID}, options.Find().SetSort(bson.D{{Key: "location_name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	var docs []locationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	out := make([]domain.Location, len(docs))
	for i, d := range docs {
		out[i] = domain.Location{ID: d.ID.Hex(), LocationName: d.LocationName, PlaceID: d.PlaceID}
	}
	return out, nil
}

// EnsureIndexes creates the lookup indexes for the cascade queries.
func (r *CatalogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.places.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "company_id", Value: 1}},
	}); err != nil {
		return err
	}
	_, err := r.locations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "place_id", Value: 1}},
	})
	return err
}
