package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mealdesk/canteen-api/internal/core/ports"
)

// DashboardRepository runs the dashboard aggregations against the meal log,
// members and pending-fees collections.
type DashboardRepository struct {
	meals       *mongo.Collection
	members     *mongo.Collection
	pendingFees *mongo.Collection
	places      *mongo.Collection
	locations   *mongo.Collection
}

func NewDashboardRepository(db *mongo.Database) *DashboardRepository {
	return &DashboardRepository{
		meals:       db.Collection(collectionMeals),
		members:     db.Collection(collectionMembers),
		pendingFees: db.Collection(collectionPendingFees),
		places:      db.Collection(collectionPlaces),
		locations:   db.Collection(collectionLocations),
	}
}

// dashboardMatch builds the shared $match stage. timeField names the
// timestamp field the date range applies to.
func dashboardMatch(q ports.DashboardQuery, timeField string) bson.M {
	match := bson.M{}
	if q.CompanyID != "" {
		match["company_id"] = q.CompanyID
	}
	if q.PlaceID != "" {
		match["place_id"] = q.PlaceID
	} else if len(q.PlaceIDs) > 0 {
		match["place_id"] = bson.M{"$in": q.PlaceIDs}
	}
	if len(q.LocationIDs) > 0 {
		match["location_id"] = bson.M{"$in": q.LocationIDs}
	}
	if !q.From.IsZero() && !q.To.IsZero() {
		match[timeField] = bson.M{"$gte": q.From, "$lte": q.To}
	}
	return match
}

func (r *DashboardRepository) Metrics(ctx context.Context, q ports.DashboardQuery) (*ports.MetricsResult, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: dashboardMatch(q, "collected_at")}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"meals":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$amount"},
		}}},
	}
	cur, err := r.meals.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("dashboard metrics: %w", err)
	}
	var totals []struct {
		Meals   int64   `bson:"meals"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cur.All(ctx, &totals); err != nil {
		return nil, fmt.Errorf("dashboard metrics: %w", err)
	}

	result := &ports.MetricsResult{}
	if len(totals) > 0 {
		result.TotalMeals = totals[0].Meals
		result.TotalRevenue = totals[0].Revenue
	}

	memberMatch := dashboardMatch(q, "")
	delete(memberMatch, "collected_at")
	memberMatch["active"] = true
	active, err := r.members.CountDocuments(ctx, memberMatch)
	if err != nil {
		return nil, fmt.Errorf("dashboard metrics: %w", err)
	}
	result.ActiveMembers = active

	pendingPipeline := mongo.Pipeline{
		{{Key: "$match", Value: dashboardMatch(q, "")}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount_due"},
		}}},
	}
	pcur, err := r.pendingFees.Aggregate(ctx, pendingPipeline)
	if err != nil {
		return nil, fmt.Errorf("dashboard metrics: %w", err)
	}
	var pending []struct {
		Total float64 `bson:"total"`
	}
	if err := pcur.All(ctx, &pending); err != nil {
		return nil, fmt.Errorf("dashboard metrics: %w", err)
	}
	if len(pending) > 0 {
		result.PendingAmount = pending[0].Total
	}
	return result, nil
}

func (r *DashboardRepository) Summary(ctx context.Context, q ports.DashboardQuery) ([]ports.DailyPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: dashboardMatch(q, "collected_at")}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$collected_at",
			}},
			"meals":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$amount"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cur, err := r.meals.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}
	var rows []struct {
		Date    string  `bson:"_id"`
		Meals   int64   `bson:"meals"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}

	out := make([]ports.DailyPoint, len(rows))
	for i, row := range rows {
		out[i] = ports.DailyPoint{Date: row.Date, Meals: row.Meals, Revenue: row.Revenue}
	}
	return out, nil
}

func (r *DashboardRepository) Overview(ctx context.Context, q ports.DashboardQuery) ([]ports.PlaceBreakdown, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: dashboardMatch(q, "collected_at")}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$place_id",
			"meals":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$amount"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "revenue", Value: -1}}}},
	}
	cur, err := r.meals.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("dashboard overview: %w", err)
	}
	var rows []struct {
		PlaceID string  `bson:"_id"`
		Meals   int64   `bson:"meals"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("dashboard overview: %w", err)
	}

	names, err := r.placeNames(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("dashboard overview: %w", err)
	}
	out := make([]ports.PlaceBreakdown, len(rows))
	for i, row := range rows {
		out[i] = ports.PlaceBreakdown{
			PlaceID:   row.PlaceID,
			PlaceName: names[row.PlaceID],
			Meals:     row.Meals,
			Revenue:   row.Revenue,
		}
	}
	return out, nil
}

func (r *DashboardRepository) placeNames(ctx context.Context, rows []struct {
	PlaceID string  `bson:"_id"`
	Meals   int64   `bson:"meals"`
	Revenue float64 `bson:"revenue"`
}) (map[string]string, error) {
	names := make(map[string]string, len(rows))
	if len(rows) == 0 {
		return names, nil
	}
	oids := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		if oid, ok := hexToObjectID(row.PlaceID); ok {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return names, nil
	}
	cur, err := r.places.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	var docs []placeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		names[d.ID.Hex()] = d.Name
	}
	return names, nil
}

func (r *DashboardRepository) RevenueByLocation(ctx context.Context, q ports.DashboardQuery) ([]ports.LocationRevenue, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: dashboardMatch(q, "collected_at")}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$location_id",
			"revenue": bson.M{"$sum": "$amount"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "revenue", Value: -1}}}},
	}
	cur, err := r.meals.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("revenue by location: %w", err)
	}
	var rows []struct {
		LocationID string  `bson:"_id"`
		Revenue    float64 `bson:"revenue"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("revenue by location: %w", err)
	}

	oids := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		if oid, ok := hexToObjectID(row.LocationID); ok {
			oids = append(oids, oid)
		}
	}
	names := make(map[string]string, len(rows))
	if len(oids) > 0 {
		lcur, err := r.locations.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
		if err != nil {
			return nil, fmt.Errorf("revenue by location: %w", err)
		}
		var docs []locationDoc
		if err := lcur.All(ctx, &docs); err != nil {
			return nil, fmt.Errorf("revenue by location: %w", err)
		}
		for _, d := range docs {
			names[d.ID.Hex()] = d.LocationName
		}
	}

	out := make([]ports.LocationRevenue, len(rows))
	for i, row := range rows {
		out[i] = ports.LocationRevenue{
			LocationID:   row.LocationID,
			LocationName: names[row.LocationID],
			Revenue:      row.Revenue,
		}
	}
	return out, nil
}

func (r *DashboardRepository) PaymentAmountsDaily(ctx context.Context, q ports.DashboardQuery) ([]ports.HourlyBucket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	interval := q.IntervalHours
	if interval <= 0 {
		interval = 1
	}
	day := time.Date(q.Date.Year(), q.Date.Month(), q.Date.Day(), 0, 0, 0, 0, q.Date.Location())

	match := dashboardMatch(q, "")
	match["collected_at"] = bson.M{"$gte": day, "$lt": day.Add(24 * time.Hour)}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$floor": bson.M{"$divide": bson.A{
				bson.M{"$hour": "$collected_at"},
				interval,
			}}},
			"amount": bson.M{"$sum": "$amount"},
			"count":  bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cur, err := r.meals.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("payment amounts daily: %w", err)
	}
	var rows []struct {
		Bucket int32   `bson:"_id"`
		Amount float64 `bson:"amount"`
		Count  int64   `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("payment amounts daily: %w", err)
	}

	out := make([]ports.HourlyBucket, len(rows))
	for i, row := range rows {
		out[i] = ports.HourlyBucket{
			BucketStart: day.Add(time.Duration(int(row.Bucket)*interval) * time.Hour),
			Amount:      row.Amount,
			Count:       row.Count,
		}
	}
	return out, nil
}
