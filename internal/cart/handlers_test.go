package cart_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-kasir/internal/cart"
	"github.com/noah-isme/backend-kasir/internal/pricing"
)

type cartPayload struct {
	CartID  string              `json:"cartId"`
	Summary pricing.CartSummary `json:"summary"`
}

type cartEnvelope struct {
	Data cartPayload `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	handler := &cart.Handler{Svc: &cart.Service{Store: cart.NewMemoryStore(0)}}

	r := chi.NewRouter()
	r.Route("/api/v1/carts", func(r chi.Router) {
		r.Post("/", handler.Create)
		r.Get("/", handler.List)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handler.Get)
			r.Delete("/", handler.Delete)
			r.Post("/items", handler.AddItem)
			r.Delete("/items", handler.Clear)
			r.Patch("/items/{itemId}", handler.UpdateQuantity)
			r.Delete("/items/{itemId}", handler.RemoveItem)
		})
	})
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateCartEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/carts", `{
		"items": [
			{"id": 1, "name": "Laptop", "category": "Electronics", "unitPrice": 100.00, "quantity": 3}
		],
		"customer": {"loyaltyLevel": "None"}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var envelope cartEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.CartID)

	summary := envelope.Data.Summary
	require.Equal(t, "330.00", summary.Subtotal.String())
	require.Equal(t, "30.00", summary.TotalTax.String())
	require.Equal(t, "49.50", summary.ItemDiscounts.String())
	require.Equal(t, "28.05", summary.BulkDiscount.String())
	require.Equal(t, "0.00", summary.LoyaltyDiscount.String())
	require.Equal(t, "252.45", summary.FinalTotal.String())

	// raw body keeps amounts as plain 2-dp JSON numbers
	require.Contains(t, rec.Body.String(), `"finalTotal":252.45`)
}

func TestCreateCartRejectsUnknownCategory(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/carts", `{
		"items": [{"id": 1, "name": "Pizza", "category": "Food", "unitPrice": 5.00, "quantity": 1}]
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, "BAD_REQUEST", envelope.Error.Code)
}

func TestCreateCartRejectsUnknownFields(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/carts", `{"items": [], "couponCode": "SAVE10"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCartRejectsNonPositivePrice(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/carts", `{
		"items": [{"id": 1, "name": "Freebie", "category": "Books", "unitPrice": 0, "quantity": 1}]
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/carts", `{
		"items": [{"id": 1, "name": "Novel", "category": "Books", "unitPrice": 20.00, "quantity": 3}],
		"customer": {"loyaltyLevel": "Gold"}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created cartEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created.Data.CartID

	// add clothing, reaching the worked mixed-cart scenario
	rec = doJSON(t, r, http.MethodPost, "/api/v1/carts/"+id+"/items", `{
		"item": {"id": 2, "name": "T-Shirt", "category": "Clothing", "unitPrice": 25.00, "quantity": 2}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var afterAdd cartEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &afterAdd))
	require.Equal(t, "16.88", afterAdd.Data.Summary.LoyaltyDiscount.String())
	require.Equal(t, "95.62", afterAdd.Data.Summary.FinalTotal.String())

	// fetch it back
	req := httptest.NewRequest(http.MethodGet, "/api/v1/carts/"+id, nil)
	getRec := httptest.NewRecorder()
	r.ServeHTTP(getRec, req)
	require.Equal(t, http.StatusOK, getRec.Code)
	var fetched cartEnvelope
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &fetched))
	require.Equal(t, "95.62", fetched.Data.Summary.FinalTotal.String())

	// bump the shirt quantity
	rec = doJSON(t, r, http.MethodPatch, "/api/v1/carts/"+id+"/items/2", `{"quantity": 4}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// remove the books
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/carts/"+id+"/items/1", nil)
	delRec := httptest.NewRecorder()
	r.ServeHTTP(delRec, req)
	require.Equal(t, http.StatusOK, delRec.Code)
	var afterRemove cartEnvelope
	require.NoError(t, json.Unmarshal(delRec.Body.Bytes(), &afterRemove))
	require.Len(t, afterRemove.Data.Summary.Items, 1)

	// clear everything
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/carts/"+id+"/items", nil)
	clearRec := httptest.NewRecorder()
	r.ServeHTTP(clearRec, req)
	require.Equal(t, http.StatusOK, clearRec.Code)
	var cleared cartEnvelope
	require.NoError(t, json.Unmarshal(clearRec.Body.Bytes(), &cleared))
	require.Empty(t, cleared.Data.Summary.Items)
	require.Equal(t, "0.00", cleared.Data.Summary.FinalTotal.String())

	// delete the cart
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/carts/"+id, nil)
	rmRec := httptest.NewRecorder()
	r.ServeHTTP(rmRec, req)
	require.Equal(t, http.StatusNoContent, rmRec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/carts/"+id, nil)
	goneRec := httptest.NewRecorder()
	r.ServeHTTP(goneRec, req)
	require.Equal(t, http.StatusNotFound, goneRec.Code)
}

func TestUnknownCartReturns404(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/carts/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestUpdateQuantityValidation(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/carts", `{
		"items": [{"id": 1, "name": "Novel", "category": "Books", "unitPrice": 20.00, "quantity": 1}]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created cartEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created.Data.CartID

	rec = doJSON(t, r, http.MethodPatch, "/api/v1/carts/"+id+"/items/1", `{"quantity": 0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPatch, "/api/v1/carts/"+id+"/items/abc", `{"quantity": 2}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPatch, "/api/v1/carts/"+id+"/items/9", `{"quantity": 2}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCartsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/carts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"data":{"cartIds":[]}}`, rec.Body.String())

	rec = doJSON(t, r, http.MethodPost, "/api/v1/carts", `{"items": []}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/carts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Data struct {
			CartIDs []string `json:"cartIds"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Data.CartIDs, 1)
}
