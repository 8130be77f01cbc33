package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

type apiClient struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	store := memory.New()
	settings := inventory.DefaultSettings()
	log := logger.Nop()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		WarehouseUC:     usecase.NewWarehouseUseCase(store.Warehouses()),
		ProductUC:       usecase.NewProductUseCase(store.Products()),
		AdjustmentUC:    inventory.NewAdjustmentUseCase(store, settings, log),
		TransferUC:      inventory.NewTransferUseCase(store, settings, log),
		PurchaseUC:      inventory.NewPurchaseUseCase(store, settings, log),
		SaleUC:          inventory.NewSaleUseCase(store, settings, log),
		QueryUC:         inventory.NewQueryUseCase(store, store.Levels()),
		ReplenishmentUC: inventory.NewReplenishmentUseCase(store.Levels()),
		JWTSecret:       testJWTSecret,
	})
	return &apiClient{t: t, app: app, token: bearer(t, testUserID)}
}

// do envía la petición y decodifica la respuesta en out (si no es nil).
func (a *apiClient) do(method, path string, body any, out any) int {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", a.token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(a.t, err)
		require.NoErrorf(a.t, json.Unmarshal(raw, out), "cuerpo: %s", raw)
	}
	return resp.StatusCode
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (a *apiClient) seed() (productID, warehouseID string) {
	a.t.Helper()
	var wh dto.WarehouseResponse
	require.Equal(a.t, fiber.StatusCreated, a.do(http.MethodPost, "/api/warehouses", dto.CreateWarehouseRequest{Code: "W1", Name: "Principal"}, &wh))
	var p dto.ProductResponse
	require.Equal(a.t, fiber.StatusCreated, a.do(http.MethodPost, "/api/products", dto.CreateProductRequest{SKU: "SKU-1", Name: "Tornillo", ReorderPoint: dec("20")}, &p))
	return p.ID, wh.ID
}

func (a *apiClient) adjust(productID, warehouseID, typ, qty string) dto.AdjustmentResponse {
	a.t.Helper()
	line := dto.AdjustmentLineRequest{ProductID: productID, Type: typ, Quantity: dec(qty)}
	if typ == "increase" {
		cost := dec("5")
		line.UnitCost = &cost
	}
	var adj dto.AdjustmentResponse
	require.Equal(a.t, fiber.StatusCreated, a.do(http.MethodPost, "/api/adjustments",
		dto.AdjustmentRequest{WarehouseID: warehouseID, Reason: "conteo", Lines: []dto.AdjustmentLineRequest{line}}, &adj))
	return adj
}

func (a *apiClient) balance(productID, warehouseID string) decimal.Decimal {
	a.t.Helper()
	var b dto.BalanceResponse
	require.Equal(a.t, fiber.StatusOK, a.do(http.MethodGet, "/api/inventory/balance?product_id="+productID+"&warehouse_id="+warehouseID, nil, &b))
	return b.Quantity
}

func TestAPI_AjusteAprobadoYStockInsuficiente(t *testing.T) {
	api := newAPI(t)
	p, w := api.seed()

	adj := api.adjust(p, w, "increase", "10")
	assert.Equal(t, "pending", adj.Status)
	assert.Equal(t, fiber.StatusOK, api.do(http.MethodPost, "/api/adjustments/"+adj.ID+"/approve", nil, &adj))
	assert.Equal(t, "approved", adj.Status)
	assert.Equal(t, testUserID, adj.ApprovedBy)
	assert.True(t, api.balance(p, w).Equal(dec("10")))

	out := api.adjust(p, w, "decrease", "15")
	var stockErr dto.InsufficientStockResponse
	assert.Equal(t, fiber.StatusConflict, api.do(http.MethodPost, "/api/adjustments/"+out.ID+"/approve", nil, &stockErr))
	assert.Equal(t, "INSUFFICIENT_STOCK", stockErr.Code)
	assert.True(t, stockErr.Requested.Equal(dec("15")))
	assert.True(t, stockErr.Available.Equal(dec("10")))
	assert.True(t, stockErr.Shortfall.Equal(dec("5")))
	assert.True(t, api.balance(p, w).Equal(dec("10")))

	var errBody dto.ErrorResponse
	assert.Equal(t, fiber.StatusConflict, api.do(http.MethodPost, "/api/adjustments/"+adj.ID+"/approve", nil, &errBody))
	assert.Equal(t, "INVALID_TRANSITION", errBody.Code)

	var ledger struct {
		Total int                    `json:"total"`
		Items []dto.MovementResponse `json:"items"`
	}
	assert.Equal(t, fiber.StatusOK, api.do(http.MethodGet, "/api/inventory/movements?product_id="+p, nil, &ledger))
	assert.Equal(t, 1, ledger.Total)
}

func TestAPI_MapeoDeErrores(t *testing.T) {
	api := newAPI(t)
	p, w := api.seed()

	var errBody dto.ErrorResponse
	assert.Equal(t, fiber.StatusNotFound, api.do(http.MethodGet, "/api/adjustments/no-existe", nil, &errBody))
	assert.Equal(t, "NOT_FOUND", errBody.Code)

	assert.Equal(t, fiber.StatusNotFound, api.do(http.MethodGet, "/api/inventory/balance?product_id="+p+"&warehouse_id=otra", nil, &errBody))

	assert.Equal(t, fiber.StatusBadRequest, api.do(http.MethodPost, "/api/adjustments",
		dto.AdjustmentRequest{WarehouseID: w}, &errBody))
	assert.Equal(t, "VALIDATION", errBody.Code)

	assert.Equal(t, fiber.StatusBadRequest, api.do(http.MethodGet, "/api/inventory/movements?from=ayer", nil, &errBody))
	assert.Equal(t, "VALIDATION", errBody.Code)

	assert.Equal(t, fiber.StatusConflict, api.do(http.MethodPost, "/api/products",
		dto.CreateProductRequest{SKU: "SKU-1", Name: "Repetido"}, &errBody))
	assert.Equal(t, "DUPLICATE", errBody.Code)

	api.token = ""
	assert.Equal(t, fiber.StatusUnauthorized, api.do(http.MethodGet, "/api/products", nil, &errBody))
}

func TestAPI_CicloDeVenta(t *testing.T) {
	api := newAPI(t)
	p, w := api.seed()
	adj := api.adjust(p, w, "increase", "8")
	require.Equal(t, fiber.StatusOK, api.do(http.MethodPost, "/api/adjustments/"+adj.ID+"/approve", nil, nil))

	var so struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.Equal(t, fiber.StatusCreated, api.do(http.MethodPost, "/api/sales", dto.SaleRequest{
		CustomerID:  "cli-1",
		WarehouseID: w,
		Lines:       []dto.SaleLineRequest{{ProductID: p, Quantity: dec("3"), UnitPrice: dec("12")}},
	}, &so))
	assert.Equal(t, "draft", so.Status)

	for _, step := range []struct{ action, status string }{
		{"submit", "pending"},
		{"approve", "approved"},
		{"fulfill", "fulfilled"},
		{"ship", "shipped"},
		{"deliver", "delivered"},
	} {
		require.Equal(t, fiber.StatusOK, api.do(http.MethodPost, "/api/sales/"+so.ID+"/"+step.action, nil, &so), step.action)
		assert.Equal(t, step.status, so.Status)
	}
	assert.True(t, api.balance(p, w).Equal(dec("5")))

	var list struct {
		Total          int `json:"total"`
		Replenishments []struct {
			SKU string `json:"sku"`
		} `json:"replenishments"`
	}
	require.Equal(t, fiber.StatusOK, api.do(http.MethodGet, "/api/inventory/replenishment-list?warehouse_id="+w, nil, &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "SKU-1", list.Replenishments[0].SKU)
}

func TestAPI_PaginacionAplicaTopes(t *testing.T) {
	api := newAPI(t)
	api.seed()

	for query, want := range map[string]dto.PageResponse{
		"":                    {Limit: dto.DefaultPageLimit, Offset: 0},
		"?limit=500&offset=3": {Limit: dto.MaxPageLimit, Offset: 3},
		"?limit=-2&offset=-7": {Limit: dto.DefaultPageLimit, Offset: 0},
		"?limit=abc":          {Limit: dto.DefaultPageLimit, Offset: 0},
	} {
		var list dto.ProductListResponse
		require.Equal(t, fiber.StatusOK, api.do(http.MethodGet, "/api/products"+query, nil, &list), query)
		assert.Equal(t, want.Limit, list.Page.Limit, query)
		assert.Equal(t, want.Offset, list.Page.Offset, query)
	}
}

func TestAPI_CantidadConMasDe4DecimalesEs400(t *testing.T) {
	api := newAPI(t)
	p, w := api.seed()

	var errBody dto.ErrorResponse
	assert.Equal(t, fiber.StatusBadRequest, api.do(http.MethodPost, "/api/adjustments", dto.AdjustmentRequest{
		WarehouseID: w,
		Reason:      "conteo",
		Lines:       []dto.AdjustmentLineRequest{{ProductID: p, Type: "increase", Quantity: dec("0.00004")}},
	}, &errBody))
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.True(t, api.balance(p, w).IsZero())
}
