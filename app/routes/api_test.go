package routes_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/routes"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/app"
	"github.com/shashiranjanraj/catalog/pkg/router"
	"github.com/shashiranjanraj/catalog/pkg/testkit"
)

type testServer struct {
	handler  http.Handler
	variants *repositories.MemoryVariantStore
}

func newTestServer(checks ...app.HealthFunc) testServer {
	variants := repositories.NewMemoryVariantStore()
	products := repositories.NewMemoryProductStore(variants)
	catalog := services.NewCatalogService(products, variants, services.Options{})

	a := app.New().Routes(func(r *router.Router) { routes.RegisterAPI(r, catalog) })
	for _, c := range checks {
		a.HealthCheck(c)
	}
	return testServer{handler: a.Handler(), variants: variants}
}

func (s testServer) do(t *testing.T, method, path, body string) (int, string) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec.Code, rec.Body.String()
}

func decode[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v), body)
	return v
}

type variantJSON struct {
	ID             string  `json:"_id"`
	Name           string  `json:"name"`
	SKU            string  `json:"SKU"`
	AdditionalCost float64 `json:"additionalCost"`
	Stock          float64 `json:"stock"`
}

type productJSON struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Variants    json.RawMessage `json:"variants"`
}

func (p productJSON) variantObjects(t *testing.T) []variantJSON {
	return decode[[]variantJSON](t, string(p.Variants))
}

func (p productJSON) variantIDs(t *testing.T) []string {
	return decode[[]string](t, string(p.Variants))
}

const shirtBody = `{"name":"Shirt","description":"","price":20,"variants":[{"name":"Small","SKU":"SH-S","stock":5}]}`

func TestCreateThenListShirt(t *testing.T) {
	s := newTestServer()

	code, body := s.do(t, http.MethodPost, "/products", shirtBody)
	require.Equal(t, http.StatusCreated, code, body)
	created := decode[productJSON](t, body)
	assert.Equal(t, "Shirt", created.Name)
	require.Len(t, created.variantObjects(t), 1)

	code, body = s.do(t, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, code, body)

	list := decode[[]productJSON](t, body)
	require.Len(t, list, 1)
	assert.Equal(t, "Shirt", list[0].Name)
	assert.Equal(t, 20.0, list[0].Price)

	variants := list[0].variantObjects(t)
	require.Len(t, variants, 1)
	assert.Equal(t, "Small", variants[0].Name)
	assert.Equal(t, "SH-S", variants[0].SKU)
	assert.Equal(t, 0.0, variants[0].AdditionalCost)
	assert.Equal(t, 5.0, variants[0].Stock)
	assert.NotEmpty(t, variants[0].ID)
}

func TestStockAcceptsAnyNumber(t *testing.T) {
	s := newTestServer()

	code, body := s.do(t, http.MethodPost, "/products",
		`{"name":"Rope","price":4,"variants":[{"name":"Per metre","SKU":"RP-M","stock":2.5}]}`)
	require.Equal(t, http.StatusCreated, code, body)
	v := decode[productJSON](t, body).variantObjects(t)[0]
	assert.Equal(t, 2.5, v.Stock)

	code, body = s.do(t, http.MethodPut, "/products/variants/"+v.ID, `{"stock":0.75}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, 0.75, decode[variantJSON](t, body).Stock)
}

func TestListEmptyAndTrailingSlash(t *testing.T) {
	s := newTestServer()

	code, body := s.do(t, http.MethodGet, "/products/", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, body)
}

func TestUpdateProduct(t *testing.T) {
	s := newTestServer()
	_, body := s.do(t, http.MethodPost, "/products", shirtBody)
	created := decode[productJSON](t, body)
	small := created.variantObjects(t)[0]

	update := `{"name":"Shirt","description":"cotton","price":22,"variants":[` +
		`{"_id":"` + small.ID + `","stock":9},` +
		`{"name":"Large","SKU":"SH-L","additionalCost":3,"stock":4}]}`
	code, body := s.do(t, http.MethodPut, "/products/"+created.ID, update)
	require.Equal(t, http.StatusOK, code, body)

	updated := decode[productJSON](t, body)
	assert.Equal(t, "cotton", updated.Description)
	ids := updated.variantIDs(t)
	require.Len(t, ids, 2)
	assert.Equal(t, small.ID, ids[0])

	code, body = s.do(t, http.MethodGet, "/products/variants/"+ids[0], "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 9.0, decode[variantJSON](t, body).Stock)

	code, body = s.do(t, http.MethodGet, "/products/variants/"+ids[1], "")
	require.Equal(t, http.StatusOK, code)
	large := decode[variantJSON](t, body)
	assert.Equal(t, 3.0, large.AdditionalCost)
	assert.Equal(t, 0.0, large.Stock, "stock is not taken from the body for variants added on update")
}

func TestUpdateProductWithoutNameIsServerError(t *testing.T) {
	s := newTestServer()
	_, body := s.do(t, http.MethodPost, "/products", shirtBody)
	created := decode[productJSON](t, body)

	code, body := s.do(t, http.MethodPut, "/products/"+created.ID, `{"price":5}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.JSONEq(t, `{"message":"Product validation failed: name: The name field is required."}`, body)
}

func TestDeleteProductCascades(t *testing.T) {
	s := newTestServer()
	_, body := s.do(t, http.MethodPost, "/products", shirtBody)
	created := decode[productJSON](t, body)
	vid := created.variantObjects(t)[0].ID

	code, body := s.do(t, http.MethodDelete, "/products/"+created.ID, "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"message":"Product deleted successfully"}`, body)

	code, body = s.do(t, http.MethodGet, "/products/variants/"+vid, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"message":"Variant not found"}`, body)
	assert.Zero(t, s.variants.Len())
}

func TestVariantUpdateAndDelete(t *testing.T) {
	s := newTestServer()
	_, body := s.do(t, http.MethodPost, "/products",
		`{"name":"Shirt","price":20,"variants":[{"name":"Small","SKU":"SH-S"},{"name":"Large","SKU":"SH-L"}]}`)
	created := decode[productJSON](t, body)
	variants := created.variantObjects(t)

	code, body := s.do(t, http.MethodPut, "/products/variants/"+variants[0].ID, `{"stock":-2,"SKU":"SH-S2"}`)
	require.Equal(t, http.StatusOK, code, body)
	v := decode[variantJSON](t, body)
	assert.Equal(t, -2.0, v.Stock)
	assert.Equal(t, "SH-S2", v.SKU)
	assert.Equal(t, "Small", v.Name)

	code, body = s.do(t, http.MethodDelete, "/products/variants/"+variants[0].ID, "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"message":"Variant deleted successfully"}`, body)

	_, body = s.do(t, http.MethodGet, "/products", "")
	list := decode[[]productJSON](t, body)
	require.Len(t, list, 1)
	remaining := list[0].variantObjects(t)
	require.Len(t, remaining, 1)
	assert.Equal(t, variants[1].ID, remaining[0].ID)
	assert.Equal(t, "Shirt", list[0].Name)
}

func TestMissingIDsAreNotFound(t *testing.T) {
	s := newTestServer()
	missing := primitive.NewObjectID().Hex()

	cases := []struct {
		method, path, body, message string
	}{
		{http.MethodPut, "/products/" + missing, `{"name":"x"}`, "Product not found"},
		{http.MethodDelete, "/products/" + missing, "", "Product not found"},
		{http.MethodPut, "/products/not-an-id", `{"name":"x"}`, "Product not found"},
		{http.MethodGet, "/products/variants/" + missing, "", "Variant not found"},
		{http.MethodPut, "/products/variants/" + missing, `{"stock":1}`, "Variant not found"},
		{http.MethodDelete, "/products/variants/" + missing, "", "Variant not found"},
		{http.MethodGet, "/products/variants/123", "", "Variant not found"},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			code, body := s.do(t, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusNotFound, code)
			assert.JSONEq(t, `{"message":"`+tc.message+`"}`, body)
		})
	}
}

func TestMalformedJSONIsServerError(t *testing.T) {
	s := newTestServer()

	code, body := s.do(t, http.MethodPost, "/products", `{"name":`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body, `"message":"invalid JSON`)
}

func TestEmptyCreateBodyFailsValidation(t *testing.T) {
	s := newTestServer()

	code, body := s.do(t, http.MethodPost, "/products", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body, "Product validation failed")
}

func TestHealthz(t *testing.T) {
	code, body := newTestServer().do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	down := newTestServer(func(context.Context) error { return errors.New("no primary") })
	code, body = down.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, body, "no primary")
}

func TestUnknownRoute(t *testing.T) {
	code, body := newTestServer().do(t, http.MethodGet, "/orders", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"message":"Route not found"}`, body)
}

func TestRouteTable(t *testing.T) {
	variants := repositories.NewMemoryVariantStore()
	catalog := services.NewCatalogService(repositories.NewMemoryProductStore(variants), variants, services.Options{})
	a := app.New().Routes(func(r *router.Router) { routes.RegisterAPI(r, catalog) })

	names := map[string]bool{}
	for _, ri := range a.RouteTable() {
		names[ri.Method+" "+ri.Path+" "+ri.Name] = true
	}

	for _, want := range []string{
		"POST /products products.store",
		"GET /products products.index",
		"PUT /products/{id} products.update",
		"DELETE /products/{id} products.destroy",
		"GET /products/variants/{id} variants.show",
		"PUT /products/variants/{id} variants.update",
		"DELETE /products/variants/{id} variants.destroy",
	} {
		assert.True(t, names[want], want)
	}
}

func TestScenarios(t *testing.T) {
	testkit.RunDir(t, func() http.Handler { return newTestServer().handler }, "testdata")
}
