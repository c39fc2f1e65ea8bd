package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mealdesk/canteen-api/internal/core/domain"
	"github.com/mealdesk/canteen-api/internal/core/ports"
)

type stubDedup struct {
	duplicate bool
	checkErr  error
	marked    int
	markErr   error
}

func (d *stubDedup) IsDuplicate(_ context.Context, _, _ string, _ time.Time) (bool, error) {
	return d.duplicate, d.checkErr
}

func (d *stubDedup) Mark(_ context.Context, _, _ string, _ time.Time) error {
	d.marked++
	return d.markErr
}

func collectorScan() ports.CollectionInput {
	return ports.CollectionInput{
		CompanyID:      "comp_1",
		PlaceID:        "p1",
		LocationID:     "l1",
		MemberName:     "Asha Rao",
		MemberUniqueID: "EMP-104",
		PackageName:    "standard",
		Amount:         45,
		CollectedAt:    time.Date(2026, 8, 20, 12, 30, 0, 0, time.Local),
		CollectedBy:    "user_7",
		Scope: domain.Scope{
			Role:               domain.RoleMealCollector,
			CompanyID:          "comp_1",
			AllowedPlaceIDs:    []string{"p1"},
			AllowedLocationIDs: []string{"l1"},
		},
	}
}

func TestProcess_PersistsAndMarks(t *testing.T) {
	repo := &stubMealRepo{}
	dedup := &stubDedup{}
	svc := NewMealService(repo, dedup, zerolog.Nop())

	if err := svc.Process(context.Background(), collectorScan()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(repo.meals) != 1 {
		t.Fatalf("inserted %d records, want 1", len(repo.meals))
	}
	if dedup.marked != 1 {
		t.Fatalf("dedup key set %d times, want 1", dedup.marked)
	}
	got := repo.meals[0]
	if got.MemberUniqueID != "EMP-104" || got.CollectedBy != "user_7" || got.LocationID != "l1" {
		t.Fatalf("record = %+v", got)
	}
}

func TestProcess_DuplicateScanSkipped(t *testing.T) {
	repo := &stubMealRepo{}
	dedup := &stubDedup{duplicate: true}
	svc := NewMealService(repo, dedup, zerolog.Nop())

	if err := svc.Process(context.Background(), collectorScan()); err != nil {
		t.Fatalf("duplicate scan must not error: %v", err)
	}
	if len(repo.meals) != 0 {
		t.Fatal("duplicate scan must not be persisted")
	}
	if dedup.marked != 0 {
		t.Fatal("duplicate scan must not refresh the dedup key")
	}
}

func TestProcess_DedupCheckFailureProcessesAnyway(t *testing.T) {
	repo := &stubMealRepo{}
	dedup := &stubDedup{checkErr: errors.New("redis down")}
	svc := NewMealService(repo, dedup, zerolog.Nop())

	if err := svc.Process(context.Background(), collectorScan()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(repo.meals) != 1 {
		t.Fatal("a failed dedup check must not drop the event")
	}
}

func TestProcess_InsertFailure(t *testing.T) {
	repo := &stubMealRepo{insertErr: errors.New("write timeout")}
	svc := NewMealService(repo, &stubDedup{}, zerolog.Nop())

	if err := svc.Process(context.Background(), collectorScan()); err == nil {
		t.Fatal("insert failure must surface")
	}
}

func TestProcess_ScopeChecks(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ports.CollectionInput)
		wantErr error
	}{
		{
			name:    "foreign company",
			mutate:  func(in *ports.CollectionInput) { in.CompanyID = "comp_2" },
			wantErr: domain.ErrForbidden,
		},
		{
			name:    "place outside assignment",
			mutate:  func(in *ports.CollectionInput) { in.PlaceID = "p9" },
			wantErr: domain.ErrLocationOutOfScope,
		},
		{
			name:    "location outside assignment",
			mutate:  func(in *ports.CollectionInput) { in.LocationID = "l9" },
			wantErr: domain.ErrLocationOutOfScope,
		},
		{
			name: "superadmin records anywhere",
			mutate: func(in *ports.CollectionInput) {
				in.CompanyID = "comp_2"
				in.Scope = domain.Scope{Role: domain.RoleSuperadmin}
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubMealRepo{}
			svc := NewMealService(repo, &stubDedup{}, zerolog.Nop())

			in := collectorScan()
			tt.mutate(&in)
			err := svc.Process(context.Background(), in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil && len(repo.meals) != 0 {
				t.Fatal("rejected event must not be persisted")
			}
		})
	}
}
