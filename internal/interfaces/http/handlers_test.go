package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/todolap-api/internal/application/analytics"
	"github.com/jhoicas/todolap-api/internal/application/auth"
	"github.com/jhoicas/todolap-api/internal/application/billing"
	"github.com/jhoicas/todolap-api/internal/application/dto"
	"github.com/jhoicas/todolap-api/internal/application/inventory"
	"github.com/jhoicas/todolap-api/internal/application/quoting"
	"github.com/jhoicas/todolap-api/internal/application/sales"
	"github.com/jhoicas/todolap-api/internal/application/usecase"
	"github.com/jhoicas/todolap-api/internal/infrastructure/pdf"
	"github.com/jhoicas/todolap-api/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/todolap-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de prueba sobre SQLite en memoria
// ──────────────────────────────────────────────────────────────────────────────

type testServer struct {
	app   *fiber.App
	admin string // header Authorization del admin inicial
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	productRepo := sqlite.NewProductRepository(db)
	serviceRepo := sqlite.NewServiceRepository(db)
	saleRepo := sqlite.NewSaleRepository(db)
	quoteRepo := sqlite.NewQuoteRepository(db)
	userRepo := sqlite.NewUserRepository(db)
	txRunner := sqlite.NewTxRunner(db)
	generator := pdf.NewMarotoPDFGenerator()

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	created, err := authUC.EnsureAdmin(ctx, "admin", "admin-password")
	require.NoError(t, err)
	require.True(t, created)

	ledger := inventory.NewLedger(txRunner, productRepo, nil)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   usecase.NewProductUseCase(productRepo),
		ServiceUC:   usecase.NewServiceUseCase(serviceRepo, userRepo),
		UserUC:      usecase.NewUserUseCase(userRepo),
		Ledger:      ledger,
		Checkout:    sales.NewCheckoutUseCase(txRunner, ledger),
		SaleQuery:   sales.NewQueryUseCase(saleRepo, productRepo, generator),
		CreateQuote: quoting.NewCreateQuoteUseCase(txRunner),
		QuoteQuery:  quoting.NewQueryUseCase(quoteRepo, generator),
		Settlement:  billing.NewSettlementUseCase(txRunner),
		Dashboard:   analytics.NewDashboardUseCase(sqlite.NewAnalyticsRepository(db)),
		JWTSecret:   testJWTSecret,
	})

	s := &testServer{app: app}
	s.admin = s.login(t, "admin", "admin-password")
	return s
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	var out dto.LoginResponse
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: password}, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, out.Token)
	return "Bearer " + out.Token
}

// do envía body como JSON y decodifica la respuesta en out (si no es nil).
func (s *testServer) do(t *testing.T, method, path, authHeader string, body, out any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (s *testServer) createProduct(t *testing.T, name, price string, stock int) dto.ProductResponse {
	t.Helper()
	var p dto.ProductResponse
	resp := s.do(t, http.MethodPost, "/api/products", s.admin,
		map[string]any{"name": name, "price": price, "stock": stock}, &p)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesInvalidas_Retorna401(t *testing.T) {
	s := newTestServer(t)
	var e dto.ErrorResponse
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "otra"}, &e)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", e.Code)
}

func TestLogin_SinPassword_Retorna400(t *testing.T) {
	s := newTestServer(t)
	var e dto.ErrorResponse
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin"}, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Message, "password")
}

func TestTecnico_NoPuedeCrearProductos(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/users", s.admin, dto.CreateUserRequest{
		Username: "tecnico1", Password: "tecnico-password", Role: "tecnico",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tecnico := s.login(t, "tecnico1", "tecnico-password")

	resp = s.do(t, http.MethodPost, "/api/products", tecnico, map[string]any{"name": "Mouse", "price": "25.00"}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/products", tecnico, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUsuarioDesactivado_PierdeAccesoConTokenVigente(t *testing.T) {
	s := newTestServer(t)
	var u dto.UserResponse
	resp := s.do(t, http.MethodPost, "/api/users", s.admin, dto.CreateUserRequest{
		Username: "tecnico2", Password: "tecnico-password",
	}, &u)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tecnico := s.login(t, "tecnico2", "tecnico-password")

	inactive := false
	resp = s.do(t, http.MethodPut, "/api/users/"+u.ID, s.admin, dto.UpdateUserRequest{Active: &inactive}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/products", tecnico, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Punto de venta
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckout_EscenarioVentaHastaAgotarStock(t *testing.T) {
	s := newTestServer(t)
	p := s.createProduct(t, "Laptop", "100.00", 5)

	var out dto.CheckoutResponse
	resp := s.do(t, http.MethodPost, "/api/sales", s.admin, dto.CheckoutRequest{
		Items: []dto.CartItemRequest{{ProductID: p.ID, Quantity: 5}},
	}, &out)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "500.00", out.Sale.Total.StringFixed(2))
	assert.Equal(t, "efectivo", out.Sale.PaymentMethod)
	assert.Equal(t, "Venta #"+out.Sale.ID+" realizada con éxito. Total: $500.00", out.Message)
	require.NotNil(t, out.Sale.OperatorID)

	var stockErr dto.InsufficientStockResponse
	resp = s.do(t, http.MethodPost, "/api/sales", s.admin, dto.CheckoutRequest{
		Items: []dto.CartItemRequest{{ProductID: p.ID, Quantity: 1}},
	}, &stockErr)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", stockErr.Code)
	assert.Equal(t, "Laptop", stockErr.ProductName)
	assert.Equal(t, 0, stockErr.Available)
	assert.Equal(t, 1, stockErr.Requested)

	var avail dto.ProductAvailabilityResponse
	s.do(t, http.MethodGet, "/api/products/"+p.ID+"/availability", s.admin, nil, &avail)
	assert.Equal(t, 0, avail.Stock)
}

func TestCheckout_CarritoVacioYProductoInexistente(t *testing.T) {
	s := newTestServer(t)

	var e dto.ErrorResponse
	resp := s.do(t, http.MethodPost, "/api/sales", s.admin, dto.CheckoutRequest{}, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", e.Code)

	resp = s.do(t, http.MethodPost, "/api/sales", s.admin, dto.CheckoutRequest{
		Items: []dto.CartItemRequest{{ProductID: "no-existe", Quantity: 1}},
	}, &e)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", e.Code)
}

func TestCheckout_MetodoDePagoInvalido_Retorna400(t *testing.T) {
	s := newTestServer(t)
	p := s.createProduct(t, "Mouse", "25.00", 3)
	resp := s.do(t, http.MethodPost, "/api/sales", s.admin, dto.CheckoutRequest{
		PaymentMethod: "cheque",
		Items:         []dto.CartItemRequest{{ProductID: p.ID, Quantity: 1}},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVentas_HistorialReciboYExport(t *testing.T) {
	s := newTestServer(t)
	p := s.createProduct(t, "Teclado", "40.50", 10)

	var out dto.CheckoutResponse
	resp := s.do(t, http.MethodPost, "/api/sales", s.admin, dto.CheckoutRequest{
		PaymentMethod: "tarjeta",
		Items:         []dto.CartItemRequest{{ProductID: p.ID, Quantity: 2}},
	}, &out)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var list dto.SaleListResponse
	resp = s.do(t, http.MethodGet, "/api/sales", s.admin, nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "81.00", list.Items[0].Total.StringFixed(2))

	var detail dto.SaleResponse
	s.do(t, http.MethodGet, "/api/sales/"+out.Sale.ID, s.admin, nil, &detail)
	require.Len(t, detail.Lines, 1)
	assert.Equal(t, "admin", detail.OperatorName)

	resp = s.do(t, http.MethodGet, "/api/sales/"+out.Sale.ID+"/receipt", s.admin, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "venta_"+out.Sale.ID[:8]+".pdf")

	resp = s.do(t, http.MethodGet, "/api/sales/export", s.admin, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "venta,fecha,operador,metodo_pago,producto"))
	assert.Contains(t, lines[1], "Teclado")

	var e dto.ErrorResponse
	resp = s.do(t, http.MethodGet, "/api/sales?from=14-03-2026", s.admin, nil, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPOS_BusquedaSoloConStock(t *testing.T) {
	s := newTestServer(t)
	s.createProduct(t, "Cable HDMI", "10.00", 4)
	s.createProduct(t, "Cable USB", "5.00", 0)

	var found []dto.ProductAvailabilityResponse
	resp := s.do(t, http.MethodGet, "/api/pos/search?q=cable", s.admin, nil, &found)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, found, 1)
	assert.Equal(t, "Cable HDMI", found[0].Name)

	s.do(t, http.MethodGet, "/api/pos/search?q=c", s.admin, nil, &found)
	assert.Empty(t, found)
}

func TestProductos_RestockYEliminarConHistorial(t *testing.T) {
	s := newTestServer(t)
	p := s.createProduct(t, "SSD 1TB", "300.00", 1)

	var restocked dto.ProductResponse
	resp := s.do(t, http.MethodPost, "/api/products/"+p.ID+"/restock", s.admin, dto.RestockRequest{Quantity: 4}, &restocked)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, restocked.Stock)

	resp = s.do(t, http.MethodPost, "/api/products/"+p.ID+"/restock", s.admin, dto.RestockRequest{Quantity: 0}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/sales", s.admin, dto.CheckoutRequest{
		Items: []dto.CartItemRequest{{ProductID: p.ID, Quantity: 1}},
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var e dto.ErrorResponse
	resp = s.do(t, http.MethodDelete, "/api/products/"+p.ID, s.admin, nil, &e)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", e.Code)

	resp = s.do(t, http.MethodPost, "/api/products", s.admin, map[string]any{"name": "SSD 1TB", "price": "1.00"}, &e)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", e.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cotizaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCotizacion_EscenarioCotizarYCobrar(t *testing.T) {
	s := newTestServer(t)
	b := s.createProduct(t, "Pasta térmica", "50.00", 10)

	var svc dto.ServiceResponse
	resp := s.do(t, http.MethodPost, "/api/services", s.admin, map[string]any{"name": "Mantenimiento", "cost": "200.00"}, &svc)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var q dto.QuoteResponse
	resp = s.do(t, http.MethodPost, "/api/quotes", s.admin, dto.CreateQuoteRequest{
		ServiceID:  svc.ID,
		ClientName: "Pedro",
		Items:      []dto.QuoteItemRequest{{ProductID: b.ID, Quantity: 2}},
	}, &q)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "300.00", q.Total.StringFixed(2))
	assert.Equal(t, "quoted", q.Status)

	var pending dto.QuoteListResponse
	s.do(t, http.MethodGet, "/api/quotes?q=pedro", s.admin, nil, &pending)
	require.Len(t, pending.Items, 1)

	resp = s.do(t, http.MethodGet, "/api/quotes/"+q.ID+"/pdf", s.admin, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var paid dto.PaymentResponse
	resp = s.do(t, http.MethodPost, "/api/quotes/"+q.ID+"/pay", s.admin, nil, &paid)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "paid", paid.Quote.Status)
	require.NotNil(t, paid.Quote.PaidAt)
	assert.Equal(t, `Servicio "Mantenimiento" pagado exitosamente. Total: $300.00`, paid.Message)

	var e dto.ErrorResponse
	resp = s.do(t, http.MethodPost, "/api/quotes/"+q.ID+"/pay", s.admin, nil, &e)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_PAID", e.Code)

	var paidList dto.QuoteListResponse
	s.do(t, http.MethodGet, "/api/quotes?status=paid", s.admin, nil, &paidList)
	require.Len(t, paidList.Items, 1)

	// cobrar no descuenta stock
	var avail dto.ProductAvailabilityResponse
	s.do(t, http.MethodGet, "/api/products/"+b.ID+"/availability", s.admin, nil, &avail)
	assert.Equal(t, 10, avail.Stock)
}

func TestCotizacion_ErroresDeEntrada(t *testing.T) {
	s := newTestServer(t)
	var svc dto.ServiceResponse
	s.do(t, http.MethodPost, "/api/services", s.admin, map[string]any{"name": "Formateo", "cost": "80.00"}, &svc)

	var e dto.ErrorResponse
	resp := s.do(t, http.MethodPost, "/api/quotes", s.admin, dto.CreateQuoteRequest{ServiceID: svc.ID, ClientName: "   "}, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", e.Code)

	resp = s.do(t, http.MethodPost, "/api/quotes", s.admin, dto.CreateQuoteRequest{ServiceID: "no-existe", ClientName: "Ana"}, &e)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/quotes/no-existe/pay", s.admin, nil, &e)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/quotes?status=anulada", s.admin, nil, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboard_SoloAdmin(t *testing.T) {
	s := newTestServer(t)
	p := s.createProduct(t, "Batería", "200.00", 2)

	resp := s.do(t, http.MethodPost, "/api/sales", s.admin, dto.CheckoutRequest{
		Items: []dto.CartItemRequest{{ProductID: p.ID, Quantity: 1}},
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var summary dto.DashboardSummaryDTO
	resp = s.do(t, http.MethodGet, "/api/dashboard/summary", s.admin, nil, &summary)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, summary.TodaySales.Count)
	assert.Equal(t, "200.00", summary.TodaySales.Revenue.StringFixed(2))
	require.Len(t, summary.TopProducts, 1)
	assert.Equal(t, "Batería", summary.TopProducts[0].ProductName)
	require.Len(t, summary.LowStock, 1)
	assert.Equal(t, 1, summary.LowStock[0].Stock)

	resp = s.do(t, http.MethodPost, "/api/users", s.admin, dto.CreateUserRequest{
		Username: "tecnico3", Password: "tecnico-password",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tecnico := s.login(t, "tecnico3", "tecnico-password")
	resp = s.do(t, http.MethodGet, "/api/dashboard/summary", tecnico, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/health", "", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
