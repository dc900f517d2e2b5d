package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rezonsoft/pamiatki/internal/cache"
	"github.com/rezonsoft/pamiatki/internal/models"
	"github.com/rezonsoft/pamiatki/internal/r2"
)

const testBaseFolder = "PROJEKTY MIEJSCOWOŚCI"

func newTestCatalogService(storage r2.ObjectStorage) *CatalogServiceImpl {
	svc := NewCatalogService(storage, cache.NewMemoryCatalogCache(10*time.Minute), testBaseFolder, "https://img.rezon.pl")
	svc.now = fixedNow
	return svc
}

func TestCatalogService_Discover(t *testing.T) {
	ctx := context.Background()

	t.Run("parses identifiers from filenames", func(t *testing.T) {
		svc := newTestCatalogService(&r2.MockObjectStorage{
			ListKeysFunc: func(ctx context.Context, prefix string) ([]string, error) {
				if prefix != testBaseFolder+"/Gdansk/" {
					t.Errorf("prefix = %q", prefix)
				}
				return []string{
					testBaseFolder + "/Gdansk/gdansk_kubek.jpg",
					testBaseFolder + "/Gdansk/gdansk_brelok.JPEG",
					testBaseFolder + "/Gdansk/notes.txt",
					testBaseFolder + "/Gdansk/random.jpg", // идентификатор совпадает с именем
					testBaseFolder + "/Gdansk/RANDOM.jpg", // то же самое в верхнем регистре
				}, nil
			},
		})

		resp, err := svc.Discover(ctx, "Gdansk", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Source != SourceR2 {
			t.Errorf("source = %q, want %q", resp.Source, SourceR2)
		}
		if resp.Count != 2 {
			t.Fatalf("count = %d, want 2", resp.Count)
		}
		// Отсортировано по названию: Brelok, Kubek
		if resp.Products[0].Identifier != "brelok" || resp.Products[1].Identifier != "kubek" {
			t.Errorf("unexpected identifiers: %s, %s", resp.Products[0].Identifier, resp.Products[1].Identifier)
		}
		first := resp.Products[0]
		if first.ID != "r2_gdansk_brelok" {
			t.Errorf("id = %q", first.ID)
		}
		if first.Name != "Brelok" {
			t.Errorf("name = %q", first.Name)
		}
		if first.Category != catalogCategory {
			t.Errorf("category = %q", first.Category)
		}
		if first.ImageURL != "https://img.rezon.pl/"+testBaseFolder+"/Gdansk/gdansk_brelok.jpg" {
			t.Errorf("image url = %q", first.ImageURL)
		}
	})

	t.Run("second call is served from cache", func(t *testing.T) {
		calls := 0
		svc := newTestCatalogService(&r2.MockObjectStorage{
			ListKeysFunc: func(ctx context.Context, prefix string) ([]string, error) {
				calls++
				return []string{testBaseFolder + "/Gdansk/gdansk_kubek.jpg"}, nil
			},
		})

		if _, err := svc.Discover(ctx, "Gdansk", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp, err := svc.Discover(ctx, "Gdansk", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 1 {
			t.Errorf("storage hit %d times, want 1", calls)
		}
		if resp.Source != SourceCache {
			t.Errorf("source = %q, want %q", resp.Source, SourceCache)
		}
	})

	t.Run("refresh bypasses cache", func(t *testing.T) {
		calls := 0
		svc := newTestCatalogService(&r2.MockObjectStorage{
			ListKeysFunc: func(ctx context.Context, prefix string) ([]string, error) {
				calls++
				return []string{testBaseFolder + "/Gdansk/gdansk_kubek.jpg"}, nil
			},
		})

		if _, err := svc.Discover(ctx, "Gdansk", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp, err := svc.Discover(ctx, "Gdansk", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 2 {
			t.Errorf("storage hit %d times, want 2", calls)
		}
		if resp.Source != SourceR2 {
			t.Errorf("source = %q, want %q", resp.Source, SourceR2)
		}
	})

	t.Run("listing failure propagates", func(t *testing.T) {
		svc := newTestCatalogService(&r2.MockObjectStorage{
			ListKeysFunc: func(ctx context.Context, prefix string) ([]string, error) {
				return nil, errors.New("bucket unavailable")
			},
		})

		if _, err := svc.Discover(ctx, "Gdansk", false); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("unconfigured storage fails", func(t *testing.T) {
		svc := newTestCatalogService(nil)
		if _, err := svc.Discover(ctx, "Gdansk", false); !errors.Is(err, ErrStorageUnavailable) {
			t.Fatalf("expected ErrStorageUnavailable, got %v", err)
		}
	})
}

func TestCatalogService_ListLocations(t *testing.T) {
	ctx := context.Background()

	t.Run("scans locations concurrently", func(t *testing.T) {
		var mu sync.Mutex
		scanned := map[string]bool{}

		svc := newTestCatalogService(&r2.MockObjectStorage{
			ListFoldersFunc: func(ctx context.Context, prefix string) ([]string, error) {
				return []string{"Gdansk", "Sopot"}, nil
			},
			ListKeysFunc: func(ctx context.Context, prefix string) ([]string, error) {
				mu.Lock()
				scanned[prefix] = true
				mu.Unlock()
				if prefix == testBaseFolder+"/Gdansk/" {
					return []string{
						testBaseFolder + "/Gdansk/gdansk_kubek.jpg",
						testBaseFolder + "/Gdansk/gdansk_brelok.jpg",
					}, nil
				}
				return []string{testBaseFolder + "/Sopot/sopot_magnes.jpg"}, nil
			},
		})

		resp, err := svc.ListLocations(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Source != SourceR2 {
			t.Errorf("source = %q, want %q", resp.Source, SourceR2)
		}
		if len(resp.Locations) != 2 {
			t.Fatalf("expected 2 locations, got %d", len(resp.Locations))
		}
		if len(scanned) != 2 {
			t.Errorf("scanned %d prefixes, want 2", len(scanned))
		}
		gdansk := resp.Locations[0]
		if gdansk.Name != "Gdansk" {
			t.Fatalf("location order changed: %q", gdansk.Name)
		}
		// Идентификаторы отсортированы
		if len(gdansk.ProductIdentifiers) != 2 || gdansk.ProductIdentifiers[0] != "brelok" {
			t.Errorf("unexpected identifiers: %v", gdansk.ProductIdentifiers)
		}
	})

	t.Run("one failing location does not abort the batch", func(t *testing.T) {
		svc := newTestCatalogService(&r2.MockObjectStorage{
			ListFoldersFunc: func(ctx context.Context, prefix string) ([]string, error) {
				return []string{"Gdansk", "Sopot"}, nil
			},
			ListKeysFunc: func(ctx context.Context, prefix string) ([]string, error) {
				if prefix == testBaseFolder+"/Sopot/" {
					return nil, errors.New("timeout")
				}
				return []string{testBaseFolder + "/Gdansk/gdansk_kubek.jpg"}, nil
			},
		})

		resp, err := svc.ListLocations(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Locations) != 2 {
			t.Fatalf("expected 2 locations, got %d", len(resp.Locations))
		}
		var sopot *models.Location
		for _, loc := range resp.Locations {
			if loc.Name == "Sopot" {
				sopot = loc
			}
		}
		if sopot == nil {
			t.Fatal("failed location missing from response")
		}
		if len(sopot.ProductIdentifiers) != 0 {
			t.Errorf("failed location must have empty identifiers, got %v", sopot.ProductIdentifiers)
		}
	})

	t.Run("storage failure serves fallback", func(t *testing.T) {
		svc := newTestCatalogService(&r2.MockObjectStorage{
			ListFoldersFunc: func(ctx context.Context, prefix string) ([]string, error) {
				return nil, errors.New("bucket unavailable")
			},
		})

		resp, err := svc.ListLocations(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Source != SourceFallback {
			t.Errorf("source = %q, want %q", resp.Source, SourceFallback)
		}
		if len(resp.Locations) == 0 {
			t.Fatal("fallback list is empty")
		}
	})

	t.Run("unconfigured storage serves fallback", func(t *testing.T) {
		svc := newTestCatalogService(nil)
		resp, err := svc.ListLocations(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Source != SourceFallback {
			t.Errorf("source = %q, want %q", resp.Source, SourceFallback)
		}
	})

	t.Run("empty folder list serves fallback", func(t *testing.T) {
		svc := newTestCatalogService(&r2.MockObjectStorage{
			ListFoldersFunc: func(ctx context.Context, prefix string) ([]string, error) {
				return []string{}, nil
			},
		})

		resp, err := svc.ListLocations(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Source != SourceFallback {
			t.Errorf("source = %q, want %q", resp.Source, SourceFallback)
		}
	})
}

func TestCatalogService_ImageURL(t *testing.T) {
	t.Run("with public domain", func(t *testing.T) {
		svc := newTestCatalogService(nil)
		if got := svc.ImageURL("a/b.jpg"); got != "https://img.rezon.pl/a/b.jpg" {
			t.Errorf("ImageURL = %q", got)
		}
	})

	t.Run("without public domain", func(t *testing.T) {
		svc := NewCatalogService(nil, cache.NewMemoryCatalogCache(time.Minute), testBaseFolder, "")
		if got := svc.ImageURL("a/b.jpg"); got != "/api/r2/file/a/b.jpg" {
			t.Errorf("ImageURL = %q", got)
		}
	})
}

func TestCatalogService_Upload(t *testing.T) {
	ctx := context.Background()
	key := testBaseFolder + "/Gdansk/Gdansk_magnes.jpg"

	t.Run("uploads new object", func(t *testing.T) {
		var uploadedKey string
		svc := newTestCatalogService(&r2.MockObjectStorage{
			ObjectExistsFunc: func(ctx context.Context, k string) (bool, error) {
				return false, nil
			},
			UploadFunc: func(ctx context.Context, k string, body []byte, contentType string) error {
				uploadedKey = k
				return nil
			},
		})

		url, err := svc.Upload(ctx, key, []byte("jpeg"), "image/jpeg", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if uploadedKey != key {
			t.Errorf("uploaded key = %q, want %q", uploadedKey, key)
		}
		if url != "https://img.rezon.pl/"+key {
			t.Errorf("url = %q", url)
		}
	})

	t.Run("refuses to overwrite existing key", func(t *testing.T) {
		uploaded := false
		svc := newTestCatalogService(&r2.MockObjectStorage{
			ObjectExistsFunc: func(ctx context.Context, k string) (bool, error) {
				return true, nil
			},
			UploadFunc: func(ctx context.Context, k string, body []byte, contentType string) error {
				uploaded = true
				return nil
			},
		})

		_, err := svc.Upload(ctx, key, []byte("jpeg"), "image/jpeg", false)
		if !errors.Is(err, ErrObjectExists) {
			t.Fatalf("err = %v, want ErrObjectExists", err)
		}
		if uploaded {
			t.Error("object must not be uploaded")
		}
	})

	t.Run("overwrite skips existence check", func(t *testing.T) {
		checked := false
		svc := newTestCatalogService(&r2.MockObjectStorage{
			ObjectExistsFunc: func(ctx context.Context, k string) (bool, error) {
				checked = true
				return true, nil
			},
			UploadFunc: func(ctx context.Context, k string, body []byte, contentType string) error {
				return nil
			},
		})

		if _, err := svc.Upload(ctx, key, []byte("jpeg"), "image/jpeg", true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if checked {
			t.Error("existence must not be checked with overwrite")
		}
	})

	t.Run("existence check failure propagates", func(t *testing.T) {
		svc := newTestCatalogService(&r2.MockObjectStorage{
			ObjectExistsFunc: func(ctx context.Context, k string) (bool, error) {
				return false, errors.New("head failed")
			},
		})

		if _, err := svc.Upload(ctx, key, []byte("jpeg"), "image/jpeg", false); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("unconfigured storage fails", func(t *testing.T) {
		svc := newTestCatalogService(nil)
		if _, err := svc.Upload(ctx, key, []byte("jpeg"), "image/jpeg", false); !errors.Is(err, ErrStorageUnavailable) {
			t.Fatalf("err = %v, want ErrStorageUnavailable", err)
		}
	})
}
