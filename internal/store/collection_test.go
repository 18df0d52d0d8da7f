package store

import (
	"testing"

	"github.com/google/uuid"

	"packmart/internal/models"
)

// testImageURL builds a unique marker URL so cleanup can find the rows.
func testImageURL(t *testing.T) string {
	t.Helper()
	return "https://cdn.example.com/catalog/2026/08/test-" + uuid.NewString()[:8] + ".jpg"
}

func TestCollectionStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewCollectionStore(db)

	url := testImageURL(t)
	t.Cleanup(func() { cleanCollectionsByImage(t, db, url) })

	created, err := s.Create(&models.Collection{
		Kind:   models.CollectionBanner,
		Images: []string{url},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if created.Kind != models.CollectionBanner {
		t.Errorf("kind: got %q, want %q", created.Kind, models.CollectionBanner)
	}

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("expected collection, got nil")
	}
	if len(found.Images) != 1 || found.Images[0] != url {
		t.Errorf("images: got %v, want [%s]", found.Images, url)
	}
}

func TestCollectionStoreCreateWithCategoryLink(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	s := NewCollectionStore(db)

	slug := "test-coll-cat-" + uuid.NewString()[:8]
	url := testImageURL(t)
	t.Cleanup(func() {
		cleanCollectionsByImage(t, db, url)
		cleanCategories(t, db, slug)
	})

	cat, err := cats.Create(&models.Category{Name: "Linked", Slug: slug, Color: "#bbbbbb"})
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}

	name := "Linked"
	created, err := s.Create(&models.Collection{
		Kind:         models.CollectionSlider,
		Images:       []string{url},
		CategoryID:   &cat.ID,
		CategoryName: &name,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, _ := s.FindByID(created.ID)
	if found.CategoryID == nil || *found.CategoryID != cat.ID {
		t.Errorf("category link: got %v, want %s", found.CategoryID, cat.ID)
	}
	if found.CategoryName == nil || *found.CategoryName != "Linked" {
		t.Errorf("category name: got %v, want Linked", found.CategoryName)
	}
}

func TestCollectionStoreListByKind(t *testing.T) {
	db := testDB(t)
	s := NewCollectionStore(db)

	bannerURL := testImageURL(t)
	sliderURL := testImageURL(t)
	t.Cleanup(func() { cleanCollectionsByImage(t, db, bannerURL, sliderURL) })

	banner, _ := s.Create(&models.Collection{Kind: models.CollectionBanner, Images: []string{bannerURL}})
	s.Create(&models.Collection{Kind: models.CollectionSlider, Images: []string{sliderURL}})

	banners, err := s.List(models.CollectionBanner)
	if err != nil {
		t.Fatalf("List(banner): %v", err)
	}

	// Only banners come back, and the fresh one is first (newest first).
	for _, c := range banners {
		if c.Kind != models.CollectionBanner {
			t.Errorf("unexpected kind in banner list: %q", c.Kind)
		}
	}
	if len(banners) == 0 || banners[0].ID != banner.ID {
		t.Error("expected newest banner first")
	}
}

func TestCollectionStoreReplaceImages(t *testing.T) {
	db := testDB(t)
	s := NewCollectionStore(db)

	keep := testImageURL(t)
	dropped := testImageURL(t)
	added := testImageURL(t)
	t.Cleanup(func() { cleanCollectionsByImage(t, db, keep, dropped, added) })

	created, _ := s.Create(&models.Collection{
		Kind:   models.CollectionBanner,
		Images: []string{dropped, keep},
	})

	updated, err := s.ReplaceImages(created.ID, []string{keep, added})
	if err != nil {
		t.Fatalf("ReplaceImages: %v", err)
	}
	if updated == nil {
		t.Fatal("expected updated collection, got nil")
	}

	found, _ := s.FindByID(created.ID)
	if len(found.Images) != 2 || found.Images[0] != keep || found.Images[1] != added {
		t.Errorf("images after replace: got %v, want [%s %s]", found.Images, keep, added)
	}
}

func TestCollectionStoreReplaceImagesMissing(t *testing.T) {
	db := testDB(t)
	s := NewCollectionStore(db)

	updated, err := s.ReplaceImages(uuid.New(), []string{"https://cdn.example.com/catalog/2026/08/ghost.jpg"})
	if err != nil {
		t.Fatalf("ReplaceImages: %v", err)
	}
	if updated != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestCollectionStoreDeleteReturnsImages(t *testing.T) {
	db := testDB(t)
	s := NewCollectionStore(db)

	url := testImageURL(t)
	created, _ := s.Create(&models.Collection{Kind: models.CollectionSlider, Images: []string{url}})

	deleted, err := s.Delete(created.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted == nil {
		t.Fatal("expected deleted collection, got nil")
	}
	// The caller needs the image list to clean up stored assets.
	if len(deleted.Images) != 1 || deleted.Images[0] != url {
		t.Errorf("deleted images: got %v, want [%s]", deleted.Images, url)
	}

	found, _ := s.FindByID(created.ID)
	if found != nil {
		t.Error("expected nil after delete")
	}

	// Deleting again reports not found.
	again, err := s.Delete(created.ID)
	if err != nil {
		t.Fatalf("Delete again: %v", err)
	}
	if again != nil {
		t.Error("expected nil deleting a missing collection")
	}
}
