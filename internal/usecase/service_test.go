package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"assessrec/internal/adapter/cache"
	"assessrec/internal/domain"
)

const serviceCSV = `Assessment_Name,Assessment_url,Description,Assessment_Type,Skills_Tested
Java Developer Test,https://example.com/view/java-developer-test/,Measures Java programming and Spring framework knowledge,Knowledge,"java,spring"
Leadership Simulation,https://example.com/view/leadership-simulation/,Assesses how candidates lead teams through realistic scenarios,Behavioral,communication
Generic Aptitude,https://example.com/view/generic-aptitude/,Numerical and verbal reasoning,Ability,
`

func writeCatalogue(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "catalogue.csv"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestService(t *testing.T, dir string) (*Service, *cache.QueryCache) {
	t.Helper()
	qc := cache.NewQueryCache(16, time.Minute)
	svc := NewService(newTestBuilder(nil), Source{Root: dir, Patterns: []string{"catalogue.csv"}}, qc, nil)
	return svc, qc
}

func TestService_NotReadyBeforeLoad(t *testing.T) {
	svc, _ := newTestService(t, t.TempDir())

	if svc.Ready() {
		t.Error("service should not be ready before Load")
	}
	_, err := svc.Search(context.Background(), "java", 5)
	if !errors.Is(err, domain.ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
}

func TestService_MissingCatalogue(t *testing.T) {
	svc, _ := newTestService(t, t.TempDir())

	_, err := svc.Load(context.Background())
	if !errors.Is(err, domain.ErrMissingData) {
		t.Errorf("expected ErrMissingData, got %v", err)
	}
	if svc.Ready() {
		t.Error("service must stay not ready after a failed load")
	}
}

func TestService_LoadAndSearch(t *testing.T) {
	dir := t.TempDir()
	writeCatalogue(t, dir, serviceCSV)
	svc, _ := newTestService(t, dir)

	stats, err := svc.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 3 {
		t.Errorf("expected 3 entries, got %d", stats.Entries)
	}
	if !svc.Ready() {
		t.Fatal("service should be ready after Load")
	}
	if files := svc.Files(); len(files) != 1 || filepath.Base(files[0]) != "catalogue.csv" {
		t.Errorf("unexpected files %v", files)
	}

	hits, err := svc.Search(context.Background(), "java developer spring", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Name != "Java Developer Test" {
		t.Errorf("expected Java Developer Test first, got %s", hits[0].Name)
	}
	if hits[0].URL != "https://example.com/view/java-developer-test/" {
		t.Errorf("unexpected url %s", hits[0].URL)
	}

	_, err = svc.Search(context.Background(), "java", 0)
	if !errors.Is(err, domain.ErrInvalidTopK) {
		t.Errorf("expected ErrInvalidTopK, got %v", err)
	}
}

func TestService_QueryCache(t *testing.T) {
	dir := t.TempDir()
	writeCatalogue(t, dir, serviceCSV)
	svc, qc := newTestService(t, dir)
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	req := domain.SearchRequest{Query: "leadership", TopK: 3}
	first, err := svc.Recommend(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if qc.Size() != 1 {
		t.Fatalf("expected 1 cached query, got %d", qc.Size())
	}
	second, err := svc.Recommend(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if first[0].Entry.ID != second[0].Entry.ID {
		t.Errorf("cached result differs: %s vs %s", first[0].Entry.ID, second[0].Entry.ID)
	}

	if err := svc.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	if qc.Size() != 0 {
		t.Errorf("reload should invalidate the query cache, %d entries left", qc.Size())
	}
}

func TestService_ReloadFailureKeepsEngine(t *testing.T) {
	dir := t.TempDir()
	writeCatalogue(t, dir, serviceCSV)
	svc, _ := newTestService(t, dir)
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	writeCatalogue(t, dir, "Title,Notes\nx,y\n")
	err := svc.Reload(context.Background())
	if !errors.Is(err, domain.ErrMissingData) {
		t.Errorf("expected ErrMissingData from broken header, got %v", err)
	}
	if !svc.Ready() {
		t.Fatal("service should keep serving after a failed reload")
	}
	stats, ok := svc.Stats()
	if !ok || stats.Entries != 3 {
		t.Errorf("expected old engine with 3 entries, got %+v", stats)
	}
	if _, err := svc.Search(context.Background(), "java", 1); err != nil {
		t.Errorf("search after failed reload: %v", err)
	}
}

func TestService_ReloadPicksUpNewRows(t *testing.T) {
	dir := t.TempDir()
	writeCatalogue(t, dir, serviceCSV)
	svc, _ := newTestService(t, dir)
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	writeCatalogue(t, dir, serviceCSV+"Python Coding,https://example.com/view/python-coding/,Python coding exercise,Knowledge,python\n")
	if err := svc.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	stats, _ := svc.Stats()
	if stats.Entries != 4 {
		t.Errorf("expected 4 entries after reload, got %d", stats.Entries)
	}
}
