package catalog

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/MohamedInamulHasan/homly-api/internal/domain"
)

type fakeRepository struct {
	products map[string]*domain.Product
	nextID   int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{products: make(map[string]*domain.Product)}
}

func (f *fakeRepository) Create(_ context.Context, p *domain.Product) error {
	f.nextID++
	p.ID = "product-" + strconv.Itoa(f.nextID)
	stored := *p
	f.products[p.ID] = &stored
	return nil
}

func (f *fakeRepository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (f *fakeRepository) List(_ context.Context, filter ListFilter) ([]domain.Product, error) {
	products := []domain.Product{}
	for _, p := range f.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Featured != nil && p.Featured != *filter.Featured {
			continue
		}
		if filter.StoreID != "" && p.StoreID != filter.StoreID {
			continue
		}
		products = append(products, *p)
	}
	return products, nil
}

func (f *fakeRepository) Update(_ context.Context, p *domain.Product) (bool, error) {
	if _, ok := f.products[p.ID]; !ok {
		return false, nil
	}
	stored := *p
	f.products[p.ID] = &stored
	return true, nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.products[id]; !ok {
		return false, nil
	}
	delete(f.products, id)
	return true, nil
}

func newTestHandler() (*Handler, *fakeRepository) {
	repo := newFakeRepository()
	return NewHandler(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func TestHandleCreate(t *testing.T) {
	t.Run("creates product", func(t *testing.T) {
		handler, repo := newTestHandler()

		body := `{"title": "Tomatoes", "price": "40", "category": "vegetables", "stock": 12, "unit": "kg"}`
		req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(repo.products) != 1 {
			t.Errorf("expected 1 stored product, got %d", len(repo.products))
		}
	})

	t.Run("rejects missing title", func(t *testing.T) {
		handler, _ := newTestHandler()

		req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"price": "40"}`))
		rec := httptest.NewRecorder()
		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects negative price", func(t *testing.T) {
		handler, _ := newTestHandler()

		req := httptest.NewRequest(http.MethodPost, "/products",
			strings.NewReader(`{"title": "Tomatoes", "price": "-1"}`))
		rec := httptest.NewRecorder()
		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestHandleListFilters(t *testing.T) {
	handler, repo := newTestHandler()
	seed := []domain.Product{
		{Title: "Tomatoes", Category: "vegetables", Featured: true},
		{Title: "Shampoo", Category: "personal-care"},
		{Title: "Onions", Category: "vegetables"},
	}
	for i := range seed {
		if err := repo.Create(context.Background(), &seed[i]); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	list := func(query string) []domain.Product {
		req := httptest.NewRequest(http.MethodGet, "/products"+query, nil)
		rec := httptest.NewRecorder()
		handler.HandleList(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var products []domain.Product
		if err := json.Unmarshal(rec.Body.Bytes(), &products); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		return products
	}

	if got := list(""); len(got) != 3 {
		t.Errorf("expected 3 products, got %d", len(got))
	}
	if got := list("?category=vegetables"); len(got) != 2 {
		t.Errorf("expected 2 vegetables, got %d", len(got))
	}
	if got := list("?featured=true"); len(got) != 1 {
		t.Errorf("expected 1 featured product, got %d", len(got))
	}
	if got := list("?category=vegetables&featured=false"); len(got) != 1 {
		t.Errorf("expected 1 non-featured vegetable, got %d", len(got))
	}

	req := httptest.NewRequest(http.MethodGet, "/products?featured=banana", nil)
	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad featured value, got %d", rec.Code)
	}
}

func TestHandleGetMissing(t *testing.T) {
	handler, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/products/nope", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	handler.HandleGet(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleUpdateAndDelete(t *testing.T) {
	handler, repo := newTestHandler()
	product := domain.Product{Title: "Tomatoes", Category: "vegetables"}
	if err := repo.Create(context.Background(), &product); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/products/"+product.ID,
		strings.NewReader(`{"title": "Cherry Tomatoes", "price": "60"}`))
	req.SetPathValue("id", product.ID)
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if repo.products[product.ID].Title != "Cherry Tomatoes" {
		t.Errorf("expected updated title, got %q", repo.products[product.ID].Title)
	}

	req = httptest.NewRequest(http.MethodDelete, "/products/"+product.ID, nil)
	req.SetPathValue("id", product.ID)
	rec = httptest.NewRecorder()
	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/products/"+product.ID, nil)
	req.SetPathValue("id", product.ID)
	rec = httptest.NewRecorder()
	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for second delete, got %d", rec.Code)
	}
}
