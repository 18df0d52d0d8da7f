// catalog_test.go holds the in-memory fakes shared by the service tests.
package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"packmart/internal/models"
)

// fakeCategoryRepo keeps categories in a slice, preserving insertion order.
type fakeCategoryRepo struct {
	categories []models.Category
	deleteLog  []uuid.UUID
	failDelete bool
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
	if r.failDelete {
		return errors.New("delete failed")
	}
	for _, id := range ids {
		r.deleteLog = append(r.deleteLog, id)
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

// fakeAssetDeleter records delete calls and fails for configured URLs.
type fakeAssetDeleter struct {
	mu      sync.Mutex
	fail    map[string]bool
	failAll bool
	deleted []string
	calls   []string
}

func (d *fakeAssetDeleter) DeleteByURL(_ context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, url)
	if d.failAll || d.fail[url] {
		return errors.New("asset delete failed")
	}
	d.deleted = append(d.deleted, url)
	return nil
}
