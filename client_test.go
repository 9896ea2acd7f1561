package prodex

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTestData(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	csv := "name,license_number,type,city,zip,county\n" +
		"Jane Doe,471012345,Licensed Real Estate Broker,Springfield,62704,Sangamon\n" +
		"Pat Inspector,451000001,Licensed Home Inspector,Chicago,60601,Cook\n"
	if err := os.WriteFile(filepath.Join(dir, "il.csv"), []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func ilSource() Source {
	return Source{Name: "il", Path: "il.csv", Shape: ShapeLicense, IDPrefix: "idfpr_", DefaultState: "IL"}
}

func TestNewRequiresSourcesOrSnapshot(t *testing.T) {
	if _, err := New(); err == nil {
		t.Error("expected error without sources or snapshot")
	}
	if _, err := New(WithSources(Source{Name: "bad"})); err == nil {
		t.Error("expected error for source without path and id prefix")
	}
}

func TestClientSearch(t *testing.T) {
	client, err := New(WithDataDir(writeTestData(t)), WithSources(ilSource()))
	if err != nil {
		t.Fatal(err)
	}

	page, err := client.Search(context.Background(), SearchParams{Query: "jane doe"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || len(page.Data) != 1 {
		t.Fatalf("total = %d, data = %d", page.Total, len(page.Data))
	}
	if page.Data[0].Slug != "jane-doe-springfield" || page.Data[0].Category != "Realtor" {
		t.Errorf("record = %+v", page.Data[0])
	}
}

func TestClientLookups(t *testing.T) {
	client, err := New(WithDataDir(writeTestData(t)), WithSources(ilSource()))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	p, err := client.GetByID(ctx, "idfpr_451000001")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Pat Inspector" || p.Category != "Home Inspector" {
		t.Errorf("record = %+v", p)
	}

	p, err = client.GetBySlug(ctx, "jane-doe-springfield")
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != "idfpr_471012345" {
		t.Errorf("id = %q", p.ID)
	}

	if _, err := client.GetByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("miss err = %v, want ErrNotFound", err)
	}
}

func TestClientStats(t *testing.T) {
	client, err := New(WithDataDir(writeTestData(t)), WithSources(ilSource()))
	if err != nil {
		t.Fatal(err)
	}

	stats, err := client.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 2 {
		t.Errorf("total = %d", stats.Total)
	}
	if stats.ByCategory["Realtor"] != 1 || stats.ByCategory["Home Inspector"] != 1 {
		t.Errorf("byCategory = %v", stats.ByCategory)
	}
}

func TestClientImportAndReload(t *testing.T) {
	dir := writeTestData(t)
	client, err := New(WithDataDir(dir), WithSources(
		ilSource(),
		Source{Name: "tx", Path: "tx.csv", Shape: ShapeLicense, IDPrefix: "trec_", DefaultState: "TX"},
	))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := client.Load(ctx); err != nil {
		t.Fatal(err)
	}

	count, err := client.Import(ctx, "tx.csv",
		"name,license_number,type,city\nSam Hill,700001,Licensed Real Estate Broker,Austin\n")
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("imported count = %d", count)
	}

	total, err := client.Reload(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 {
		t.Errorf("total after reload = %d, want 3", total)
	}

	if _, err := client.GetByID(ctx, "trec_700001"); err != nil {
		t.Errorf("imported record not found: %v", err)
	}
}

func TestClientPagination(t *testing.T) {
	client, err := New(
		WithDataDir(writeTestData(t)),
		WithSources(ilSource()),
		WithPagination(1, 10),
	)
	if err != nil {
		t.Fatal(err)
	}

	page, err := client.Search(context.Background(), SearchParams{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Limit != 1 || len(page.Data) != 1 || page.Total != 2 {
		t.Errorf("page = limit %d, data %d, total %d", page.Limit, len(page.Data), page.Total)
	}
}
