package routes_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/till/app/models"
	"github.com/shashiranjanraj/till/app/repositories"
	"github.com/shashiranjanraj/till/app/routes"
	"github.com/shashiranjanraj/till/app/services"
	"github.com/shashiranjanraj/till/pkg/crypt"
	"github.com/shashiranjanraj/till/pkg/router"
	"github.com/shashiranjanraj/till/pkg/storage"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  map[string]string
}

func newAPI(t *testing.T) (*router.Router, *services.Terminal) {
	t.Helper()
	disk := storage.NewLocal(t.TempDir(), "")
	term := services.NewTerminal(services.TerminalOptions{
		Settings: repositories.NewSettingsRepository(disk, crypt.New("test-key")),
		Policy:   services.NewSyncPolicy(repositories.NewLocalStore(disk), nil),
	})
	term.Start(context.Background())
	t.Cleanup(func() { _ = term.Close() })

	r := router.New()
	require.NoError(t, routes.RegisterAPI(r, term))
	return r, term
}

func call(t *testing.T, r *router.Router, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") && rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func TestRoutes_Named(t *testing.T) {
	r, _ := newAPI(t)
	path, ok := r.Path("checkout")
	require.True(t, ok)
	assert.Equal(t, "/api/checkout", path)

	url, err := r.URL("products.update", map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/api/products/7", url)
}

func TestRoutes_ListWithoutTerminal(t *testing.T) {
	r := router.New()
	require.NoError(t, routes.RegisterAPI(r, nil))
	assert.NotEmpty(t, r.Routes())
}

func TestProducts_IndexFilters(t *testing.T) {
	r, _ := newAPI(t)

	rec, env := call(t, r, http.MethodGet, "/api/products?q=LAT&category=Drinks", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.Product
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Latte", got[0].Name)
}

func TestProducts_Categories(t *testing.T) {
	r, _ := newAPI(t)
	_, env := call(t, r, http.MethodGet, "/api/categories", "")

	var got []string
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, []string{"all", "Drinks", "Bakery", "Desserts"}, got)
}

func TestProducts_StoreUpdateDestroy(t *testing.T) {
	r, term := newAPI(t)

	rec, env := call(t, r, http.MethodPost, "/api/products", `{"name":"Matcha","price":24,"cost":8,"category":"Drinks"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Product
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)

	rec, _ = call(t, r, http.MethodPut, "/api/products/"+created.ID, `{"name":"Iced Matcha","price":26,"cost":8,"category":"Drinks"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	p, ok := term.Product(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Iced Matcha", p.Name)

	rec, _ = call(t, r, http.MethodDelete, "/api/products/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, ok = term.Product(created.ID)
	assert.False(t, ok)
}

func TestProducts_StoreValidation(t *testing.T) {
	r, _ := newAPI(t)

	rec, env := call(t, r, http.MethodPost, "/api/products", `{"price":-1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "name")
	assert.Contains(t, env.Errors, "price")

	rec, _ = call(t, r, http.MethodPost, "/api/products", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCart_AddAdjustCheckout(t *testing.T) {
	r, term := newAPI(t)

	rec, _ := call(t, r, http.MethodPost, "/api/cart/items", `{"productId":"1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	call(t, r, http.MethodPost, "/api/cart/items", `{"productId":"1"}`)
	_, env := call(t, r, http.MethodPatch, "/api/cart/items/1", `{"delta":1}`)

	var cart struct {
		Total  float64 `json:"total"`
		Profit float64 `json:"profit"`
		Count  int     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Equal(t, 3, cart.Count)
	assert.Equal(t, 66.0, cart.Total)
	assert.Equal(t, 48.0, cart.Profit)

	rec, env = call(t, r, http.MethodPost, "/api/checkout", `{"paymentMethod":"card"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var tx models.Transaction
	require.NoError(t, json.Unmarshal(env.Data, &tx))
	assert.Equal(t, models.PaymentCard, tx.PaymentMethod)
	assert.Equal(t, 66.0, tx.TotalAmount)

	assert.Equal(t, 0, term.Cart().Len())
	require.Len(t, term.Transactions(), 1)
}

func TestCart_AddUnknownProduct(t *testing.T) {
	r, _ := newAPI(t)
	rec, _ := call(t, r, http.MethodPost, "/api/cart/items", `{"productId":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckout_EmptyCartAndBadMethod(t *testing.T) {
	r, term := newAPI(t)

	rec, env := call(t, r, http.MethodPost, "/api/checkout", `{"paymentMethod":"cash"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cart is empty", env.Message)
	assert.Empty(t, term.Transactions())

	rec, env = call(t, r, http.MethodPost, "/api/checkout", `{"paymentMethod":"cheque"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "paymentMethod")
}

func TestTransactions_Export(t *testing.T) {
	r, term := newAPI(t)
	_, err := term.AddToCart("5")
	require.NoError(t, err)
	_, _, err = term.Checkout(context.Background(), models.PaymentQR)
	require.NoError(t, err)

	rec, _ := call(t, r, http.MethodGet, "/api/transactions/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sales_history.json")

	var txs []models.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txs))
	require.Len(t, txs, 1)
	assert.Equal(t, 12.0, txs[0].TotalAmount)
}

func TestStats_ShowAndInsightFallback(t *testing.T) {
	r, _ := newAPI(t)

	rec, env := call(t, r, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats struct {
		Days []services.DayPoint `json:"days"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Len(t, stats.Days, 7)

	_, env = call(t, r, http.MethodPost, "/api/stats/insight", "")
	var insight map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &insight))
	assert.Equal(t, services.InsightFallback, insight["insight"])
}

func TestSettings_RedactsCredential(t *testing.T) {
	r, term := newAPI(t)

	rec, env := call(t, r, http.MethodPut, "/api/settings",
		`{"useCloud":false,"remoteEndpoint":"postgres://db.example/till","remoteCredential":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, models.RedactedCredential, got["remoteCredential"])
	assert.Equal(t, false, got["cloudActive"])
	assert.Equal(t, "s3cret", term.Settings().RemoteCredential)
}

func TestSettings_CloudFailureWarns(t *testing.T) {
	r, term := newAPI(t)

	rec, env := call(t, r, http.MethodPut, "/api/settings",
		`{"useCloud":true,"remoteEndpoint":"ftp://nowhere","remoteCredential":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, services.ErrCloudUnavailable.Error(), env.Message)
	assert.False(t, term.CloudActive())
	assert.True(t, term.Settings().UseCloud)
}

func TestGraphQL_Products(t *testing.T) {
	r, _ := newAPI(t)

	body, _ := json.Marshal(map[string]string{"query": `{ products(category: "Bakery") { id name } summary { transactionCount } }`})
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Data struct {
			Products []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"products"`
			Summary struct {
				TransactionCount int `json:"transactionCount"`
			} `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Data.Products, 1)
	assert.Equal(t, "Butter Croissant", out.Data.Products[0].Name)
	assert.Equal(t, 0, out.Data.Summary.TransactionCount)
}

func TestEvents_StreamsCatalogUpdates(t *testing.T) {
	r, term := newAPI(t)
	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return term.Bus().Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)

	_, err = term.SaveProduct(context.Background(), models.Product{Name: "Scone", Price: 9, Cost: 3, Category: "Bakery"})
	require.NoError(t, err)

	sc := bufio.NewScanner(resp.Body)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
		if strings.HasPrefix(sc.Text(), "data: ") {
			break
		}
	}
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "event: catalog.updated", lines[len(lines)-2])
	assert.Contains(t, lines[len(lines)-1], `"action":"upsert"`)
}
