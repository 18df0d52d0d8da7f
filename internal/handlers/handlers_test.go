// handlers_test.go holds the fakes and helpers shared by the API tests.
package handlers

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"packmart/internal/catalog"
	"packmart/internal/models"
	"packmart/internal/storage"
)

// fakeCategoryRepo keeps categories in a slice, preserving insertion order.
type fakeCategoryRepo struct {
	categories []models.Category
}

func (r *fakeCategoryRepo) List() ([]models.Category, error) {
	return append([]models.Category(nil), r.categories...), nil
}

func (r *fakeCategoryRepo) Tree() ([]models.Category, error) {
	return r.children(nil, 0), nil
}

func (r *fakeCategoryRepo) children(parentID *uuid.UUID, depth int) []models.Category {
	var result []models.Category
	for _, c := range r.categories {
		match := (c.ParentID == nil && parentID == nil) ||
			(c.ParentID != nil && parentID != nil && *c.ParentID == *parentID)
		if match {
			c.Depth = depth
			c.Children = r.children(&c.ID, depth+1)
			result = append(result, c)
		}
	}
	return result
}

func (r *fakeCategoryRepo) FindByID(id uuid.UUID) (*models.Category, error) {
	for _, c := range r.categories {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) FindChildren(id uuid.UUID) ([]models.Category, error) {
	var result []models.Category
	for _, c := range r.categories {
		if c.ParentID != nil && *c.ParentID == id {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *fakeCategoryRepo) HasChildren(id uuid.UUID) (bool, error) {
	kids, _ := r.FindChildren(id)
	return len(kids) > 0, nil
}

func (r *fakeCategoryRepo) Subtree(id uuid.UUID) ([]models.Category, error) {
	root, _ := r.FindByID(id)
	if root == nil {
		return nil, nil
	}
	result := []models.Category{*root}
	kids, _ := r.FindChildren(id)
	for _, kid := range kids {
		sub, _ := r.Subtree(kid.ID)
		result = append(result, sub...)
	}
	return result, nil
}

func (r *fakeCategoryRepo) Create(c *models.Category) (*models.Category, error) {
	created := *c
	created.ID = uuid.New()
	r.categories = append(r.categories, created)
	return &created, nil
}

func (r *fakeCategoryRepo) Update(c *models.Category) (*models.Category, error) {
	for i := range r.categories {
		if r.categories[i].ID == c.ID {
			r.categories[i] = *c
			updated := *c
			return &updated, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) Delete(ids []uuid.UUID) error {
	for _, id := range ids {
		for i := range r.categories {
			if r.categories[i].ID == id {
				r.categories = append(r.categories[:i], r.categories[i+1:]...)
				break
			}
		}
	}
	return nil
}

// fakeCollectionRepo keeps collections in a slice, newest first.
type fakeCollectionRepo struct {
	collections []models.Collection
}

func (r *fakeCollectionRepo) List(kind models.CollectionKind) ([]models.Collection, error) {
	var result []models.Collection
	for _, c := range r.collections {
		if c.Kind == kind {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *fakeCollectionRepo) FindByID(id uuid.UUID) (*models.Collection, error) {
	for _, c := range r.collections {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeCollectionRepo) Create(c *models.Collection) (*models.Collection, error) {
	created := *c
	created.ID = uuid.New()
	r.collections = append([]models.Collection{created}, r.collections...)
	return &created, nil
}

func (r *fakeCollectionRepo) ReplaceImages(id uuid.UUID, images []string) (*models.Collection, error) {
	for i := range r.collections {
		if r.collections[i].ID == id {
			r.collections[i].Images = append([]string(nil), images...)
			updated := r.collections[i]
			return &updated, nil
		}
	}
	return nil, nil
}

func (r *fakeCollectionRepo) Delete(id uuid.UUID) (*models.Collection, error) {
	for i := range r.collections {
		if r.collections[i].ID == id {
			deleted := r.collections[i]
			r.collections = append(r.collections[:i], r.collections[i+1:]...)
			return &deleted, nil
		}
	}
	return nil, nil
}

// fakeAssetStore implements AssetStore in memory.
type fakeAssetStore struct {
	mu        sync.Mutex
	counter   int
	uploads   [][]storage.File
	deleted   []string
	deleteErr map[string]error
}

const fakeStoreBase = "https://cdn.example.com/"

func (f *fakeAssetStore) UploadBatch(_ context.Context, files []storage.File) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, files)
	urls := make([]string, len(files))
	for i := range files {
		f.counter++
		urls[i] = fmt.Sprintf("%scatalog/u%d.png", fakeStoreBase, f.counter)
	}
	return urls, nil
}

func (f *fakeAssetStore) DeleteByURL(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.deleteErr[url]; ok {
		return err
	}
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeAssetStore) UploadObject(_ context.Context, key, _ string, _ []byte) (string, error) {
	return fakeStoreBase + key, nil
}

func (f *fakeAssetStore) ExtractKey(rawURL string) (string, bool) {
	if strings.HasPrefix(rawURL, fakeStoreBase) {
		return rawURL[len(fakeStoreBase):], true
	}
	return "", false
}

func (f *fakeAssetStore) uploadCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

// testAPI wires an API with in-memory fakes and a chi router matching
// the production route shapes.
type testAPI struct {
	api         *API
	router      chi.Router
	catRepo     *fakeCategoryRepo
	collRepo    *fakeCollectionRepo
	assetStore  *fakeAssetStore
	collections *catalog.Collections
	categories  *catalog.Categories
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	catRepo := &fakeCategoryRepo{}
	collRepo := &fakeCollectionRepo{}
	assetStore := &fakeAssetStore{}

	categories := catalog.NewCategories(catRepo, assetStore)
	collections := catalog.NewCollections(collRepo, assetStore)
	api := NewAPI(categories, collections, assetStore, nil)

	r := chi.NewRouter()
	r.Get("/health", api.Health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/assets", api.AssetsUpload)
		r.Delete("/assets", api.AssetsDelete)
		r.Post("/assets/cleanup", api.AssetsCleanup)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", api.CategoriesList)
			r.Post("/", api.CategoriesCreate)
			r.Get("/{id}", api.CategoriesGet)
			r.Put("/{id}", api.CategoriesUpdate)
			r.Delete("/{id}", api.CategoriesDelete)
			r.Get("/{id}/children", api.CategoriesChildren)
		})

		r.Route("/banners", func(r chi.Router) {
			r.Get("/", api.CollectionsList(models.CollectionBanner))
			r.Post("/", api.CollectionsCreate(models.CollectionBanner))
			r.Put("/{id}", api.CollectionsUpdate)
			r.Delete("/{id}", api.CollectionsDelete)
		})
		r.Route("/sliders", func(r chi.Router) {
			r.Get("/", api.CollectionsList(models.CollectionSlider))
			r.Post("/", api.CollectionsCreate(models.CollectionSlider))
			r.Put("/{id}", api.CollectionsUpdate)
			r.Delete("/{id}", api.CollectionsDelete)
		})
	})

	return &testAPI{
		api: api, router: r,
		catRepo: catRepo, collRepo: collRepo, assetStore: assetStore,
		categories: categories, collections: collections,
	}
}

// do runs a request through the test router.
func (ta *testAPI) do(method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	ta.router.ServeHTTP(rec, req)
	return rec
}

// doJSON runs a JSON request through the test router.
func (ta *testAPI) doJSON(method, path, body string) *httptest.ResponseRecorder {
	return ta.do(method, path, bytes.NewBufferString(body), "application/json")
}

// multipartUpload builds a multipart body with the given files.
func multipartUpload(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		part.Write(data)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

// pngPayload sniffs as image/png.
func pngPayload() []byte {
	return []byte("\x89PNG\r\n\x1a\n0123456789")
}

// pdfPayload sniffs as application/pdf.
func pdfPayload() []byte {
	return []byte("%PDF-1.40123456789")
}

func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status: got %d, want %d — body %s", rec.Code, want, rec.Body.String())
	}
}
