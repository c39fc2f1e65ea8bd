package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mealdesk/canteen-api/internal/core/domain"
	"github.com/mealdesk/canteen-api/internal/core/ports"
)

const (
	collectionMeals       = "meals"
	collectionPendingFees = "pending_fees"
	collectionMembers     = "members"
)

// MealRepository persists the meal log and runs the backend-query-mode
// report queries over the pending-fees and members collections.
type MealRepository struct {
	meals       *mongo.Collection
	pendingFees *mongo.Collection
	members     *mongo.Collection
}

func NewMealRepository(db *mongo.Database) *MealRepository {
	return &MealRepository{
		meals:       db.Collection(collectionMeals),
		pendingFees: db.Collection(collectionPendingFees),
		members:     db.Collection(collectionMembers),
	}
}

type mealDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	CompanyID      string             `bson:"company_id"`
	PlaceID        string             `bson:"place_id"`
	LocationID     string             `bson:"location_id"`
	MemberName     string             `bson:"member_name"`
	MemberUniqueID string             `bson:"member_unique_id"`
	PackageName    string             `bson:"package_name"`
	Amount         float64            `bson:"amount"`
	CollectedAt    time.Time          `bson:"collected_at"`
	CollectedBy    string             `bson:"collected_by,omitempty"`
}

func (r *MealRepository) Insert(ctx context.Context, m *domain.MealRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mealDoc{
		CompanyID:      m.CompanyID,
		PlaceID:        m.PlaceID,
		LocationID:     m.LocationID,
		MemberName:     m.MemberName,
		MemberUniqueID: m.MemberUniqueID,
		PackageName:    m.PackageName,
		Amount:         m.Amount,
		CollectedAt:    m.CollectedAt,
		CollectedBy:    m.CollectedBy,
	}
	if _, err := r.meals.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert meal: %w", err)
	}
	return nil
}

func (r *MealRepository) ListByCompany(ctx context.Context, companyID string) ([]domain.MealRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if companyID != "" {
		filter["company_id"] = companyID
	}

	cur, err := r.meals.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "collected_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	var docs []mealDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}

	out := make([]domain.MealRecord, len(docs))
	for i, d := range docs {
		out[i] = domain.MealRecord{
			ID:             d.ID.Hex(),
			CompanyID:      d.CompanyID,
			PlaceID:        d.PlaceID,
			LocationID:     d.LocationID,
			MemberName:     d.MemberName,
			MemberUniqueID: d.MemberUniqueID,
			PackageName:    d.PackageName,
			Amount:         d.Amount,
			CollectedAt:    d.CollectedAt,
			CollectedBy:    d.CollectedBy,
		}
	}
	return out, nil
}

type pendingFeeDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	CompanyID      string             `bson:"company_id"`
	PlaceID        string             `bson:"place_id"`
	LocationID     string             `bson:"location_id"`
	MemberName     string             `bson:"member_name"`
	MemberUniqueID string             `bson:"member_unique_id"`
	PackageName    string             `bson:"package_name"`
	AmountDue      float64            `bson:"amount_due"`
	DueSince       time.Time          `bson:"due_since"`
}

func (r *MealRepository) ListPendingFees(ctx context.Context, q ports.ReportQuery) ([]domain.PendingFee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := queryFilter(q, "due_since")

	cur, err := r.pendingFees.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "due_since", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list pending fees: %w", err)
	}
	var docs []pendingFeeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list pending fees: %w", err)
	}

	out := make([]domain.PendingFee, len(docs))
	for i, d := range docs {
		out[i] = domain.PendingFee{
			ID:             d.ID.Hex(),
			CompanyID:      d.CompanyID,
			PlaceID:        d.PlaceID,
			LocationID:     d.LocationID,
			MemberName:     d.MemberName,
			MemberUniqueID: d.MemberUniqueID,
			PackageName:    d.PackageName,
			AmountDue:      d.AmountDue,
			DueSince:       d.DueSince,
		}
	}
	return out, nil
}

type memberDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	CompanyID   string             `bson:"company_id"`
	PlaceID     string             `bson:"place_id"`
	LocationID  string             `bson:"location_id"`
	FullName    string             `bson:"full_name"`
	UniqueID    string             `bson:"unique_id"`
	PackageName string             `bson:"package_name"`
	Phone       string             `bson:"phone,omitempty"`
	JoinedAt    time.Time          `bson:"joined_at"`
	Active      bool               `bson:"active"`
}

func (r *MealRepository) ListMembers(ctx context.Context, q ports.ReportQuery) ([]domain.MemberRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := queryFilter(q, "joined_at")
	// The user report searches name/unique id differently named fields.
	if q.Search != "" {
		filter["$or"] = searchClauses(q.Search, "full_name", "unique_id", "package_name")
	}

	cur, err := r.members.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "full_name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	var docs []memberDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	out := make([]domain.MemberRecord, len(docs))
	for i, d := range docs {
		out[i] = domain.MemberRecord{
			ID:          d.ID.Hex(),
			CompanyID:   d.CompanyID,
			PlaceID:     d.PlaceID,
			LocationID:  d.LocationID,
			FullName:    d.FullName,
			UniqueID:    d.UniqueID,
			PackageName: d.PackageName,
			Phone:       d.Phone,
			JoinedAt:    d.JoinedAt,
			Active:      d.Active,
		}
	}
	return out, nil
}

// queryFilter translates a ReportQuery into a bson filter. timeField names
// the collection's timestamp field for the date range.
func queryFilter(q ports.ReportQuery, timeField string) bson.M {
	filter := bson.M{}
	if q.CompanyID != "" {
		filter["company_id"] = q.CompanyID
	}
	if q.PlaceID != "" {
		filter["place_id"] = q.PlaceID
	} else if len(q.PlaceIDs) > 0 {
		filter["place_id"] = bson.M{"$in": q.PlaceIDs}
	}
	if q.LocationID != "" {
		filter["location_id"] = q.LocationID
	} else if len(q.LocationIDs) > 0 {
		filter["location_id"] = bson.M{"$in": q.LocationIDs}
	}
	if !q.From.IsZero() && !q.To.IsZero() {
		filter[timeField] = bson.M{"$gte": q.From, "$lte": q.To}
	}
	if q.Search != "" {
		filter["$or"] = searchClauses(q.Search, "member_name", "member_unique_id", "package_name")
	}
	return filter
}

func searchClauses(search string, fields ...string) []bson.M {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	out := make([]bson.M, len(fields))
	for i, f := range fields {
		out[i] = bson.M{f: re}
	}
	return out
}

// EnsureIndexes creates the query indexes for the meal log and report
// collections.
func (r *MealRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	mealIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "collected_at", Value: -1}}},
		{Keys: bson.D{{Key: "place_id", Value: 1}}},
		{Keys: bson.D{{Key: "location_id", Value: 1}}},
	}
	if _, err := r.meals.Indexes().CreateMany(ctx, mealIndexes); err != nil {
		return err
	}
	if _, err := r.pendingFees.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "due_since", Value: 1}},
	}); err != nil {
		return err
	}
	_, err := r.members.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "full_name", Value: 1}},
	})
	return err
}
