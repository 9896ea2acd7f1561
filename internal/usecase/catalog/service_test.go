package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openregistry/prodex/internal/domain"
	"github.com/openregistry/prodex/internal/domain/professional"
	"github.com/openregistry/prodex/internal/repository/dataset"
)

// --- Mocks ---

type mockProvider struct {
	snap *dataset.Snapshot
	err  error
}

func (m *mockProvider) Snapshot(_ context.Context) (*dataset.Snapshot, error) {
	return m.snap, m.err
}

func loadedProvider(t time.Time) *mockProvider {
	inspector := &professional.Professional{
		ID: "idfpr_2", Slug: "pat-inspector-chicago", Name: "Pat Inspector",
		Category: professional.CategoryHomeInspector,
	}
	return &mockProvider{snap: dataset.NewSnapshot([]*professional.Professional{
		{ID: "idfpr_1", Slug: "jane-doe-springfield", Name: "Jane Doe", Category: professional.CategoryRealtor},
		inspector,
	}, t)}
}

func TestGetByID(t *testing.T) {
	svc := New(loadedProvider(time.Now()))

	p, err := svc.GetByID(context.Background(), "idfpr_1")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Jane Doe" {
		t.Errorf("Name = %q", p.Name)
	}

	if _, err := svc.GetByID(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("miss err = %v, want ErrNotFound", err)
	}
}

func TestGetBySlug(t *testing.T) {
	svc := New(loadedProvider(time.Now()))

	p, err := svc.GetBySlug(context.Background(), "pat-inspector-chicago")
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != "idfpr_2" {
		t.Errorf("ID = %q", p.ID)
	}

	if _, err := svc.GetBySlug(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("miss err = %v, want ErrNotFound", err)
	}
}

func TestStats(t *testing.T) {
	loadedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := New(loadedProvider(loadedAt))

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 2 {
		t.Errorf("Total = %d", stats.Total)
	}
	if stats.ByCategory["Realtor"] != 1 || stats.ByCategory["Home Inspector"] != 1 {
		t.Errorf("ByCategory = %v", stats.ByCategory)
	}
	if stats.LastLoaded == nil || !stats.LastLoaded.Equal(loadedAt) {
		t.Errorf("LastLoaded = %v", stats.LastLoaded)
	}
}

func TestProviderError(t *testing.T) {
	provErr := errors.New("load failed")
	svc := New(&mockProvider{err: provErr})

	if _, err := svc.GetByID(context.Background(), "x"); !errors.Is(err, provErr) {
		t.Errorf("err = %v", err)
	}
	if _, err := svc.Stats(context.Background()); !errors.Is(err, provErr) {
		t.Errorf("err = %v", err)
	}
}
