package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diegova8/food-manager-backend/config"
	"github.com/diegova8/food-manager-backend/models"
	"github.com/diegova8/food-manager-backend/sender"
	"github.com/diegova8/food-manager-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubOrderRepo struct {
	byRef map[string]*models.Order
}

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) error {
	s.byRef[order.PayPalOrderID] = order
	return nil
}

func (s *stubOrderRepo) FindByPayPalOrderID(ctx context.Context, ref string) (*models.Order, error) {
	return s.byRef[ref], nil
}

type stubNotifRepo struct{}

func (s *stubNotifRepo) SaveLog(ctx context.Context, log *models.NotificationLog) error {
	return nil
}

func (s *stubNotifRepo) GetLogs(ctx context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, error) {
	return nil, 0, nil
}

type stubGateway struct {
	capture *services.CaptureResult
}

func (s *stubGateway) ExchangeToken(ctx context.Context) (string, error) {
	return "tok", nil
}

func (s *stubGateway) CreateOrder(ctx context.Context, accessToken string, amount float64, currency, description string) (string, error) {
	return "GW-1", nil
}

func (s *stubGateway) CaptureOrder(ctx context.Context, accessToken, orderID string) (*services.CaptureResult, error) {
	return s.capture, nil
}

var _ sender.EmailSender = (*nopEmail)(nil)

type nopEmail struct{}

func (n *nopEmail) SendEmail(ctx context.Context, to, subject, body string) (sender.SendResult, error) {
	return sender.SendResult{}, nil
}

func newTestRouter(gateway *stubGateway, repo *stubOrderRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		ExchangeRate:       505,
		BusinessCurrency:   "CRC",
		SettlementCurrency: "USD",
	}
	svc := services.NewCheckoutService(repo, &stubNotifRepo{}, gateway, &nopEmail{}, nil, cfg, zap.NewNop())
	ctrl := NewCheckoutController(svc, zap.NewNop())

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.POST("/api/checkout/orders", ctrl.CreateOrder)
	r.POST("/api/checkout/orders/capture", ctrl.CaptureOrder)
	return r
}

const validCart = `{
	"items": [{"name": "Casado con pollo", "quantity": 2, "unit_price": 5000}],
	"total": 10000,
	"delivery_method": "pickup",
	"scheduled_date": "2026-09-01",
	"personal_info": {"name": "Ana Rojas", "phone": "88881234"}
}`

func TestCreateOrderEndpoint(t *testing.T) {
	gw := &stubGateway{}
	r := newTestRouter(gw, &stubOrderRepo{byRef: map[string]*models.Order{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/orders", strings.NewReader(validCart))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"id":"GW-1"`) {
		t.Fatalf("expected gateway order id echoed, got %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"settlement_amount":19.8`) {
		t.Fatalf("expected settlement amount, got %s", w.Body.String())
	}
}

func TestCreateOrderRejectsInvalidCart(t *testing.T) {
	r := newTestRouter(&stubGateway{}, &stubOrderRepo{byRef: map[string]*models.Order{}})

	// quantity above the allowed bound
	body := strings.Replace(validCart, `"quantity": 2`, `"quantity": 101`, 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateOrderMethodNotAllowed(t *testing.T) {
	r := newTestRouter(&stubGateway{}, &stubOrderRepo{byRef: map[string]*models.Order{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/checkout/orders", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestCaptureOrderEndpoint(t *testing.T) {
	gw := &stubGateway{capture: &services.CaptureResult{
		Status:        services.CaptureStatusCompleted,
		TransactionID: "TXN-1",
		Amount:        19.80,
		Currency:      "USD",
	}}
	r := newTestRouter(gw, &stubOrderRepo{byRef: map[string]*models.Order{}})

	body := `{"order_id": "GW-1", "cart": ` + validCart + `}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/orders/capture", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"transaction_id":"TXN-1"`) {
		t.Fatalf("expected transaction id, got %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"status":"confirmed"`) {
		t.Fatalf("expected confirmed status, got %s", w.Body.String())
	}
}

func TestCaptureOrderNotCompletedMapsTo400(t *testing.T) {
	gw := &stubGateway{capture: &services.CaptureResult{Status: "DECLINED"}}
	r := newTestRouter(gw, &stubOrderRepo{byRef: map[string]*models.Order{}})

	body := `{"order_id": "GW-1", "cart": ` + validCart + `}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/orders/capture", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "DECLINED") {
		t.Fatalf("expected gateway status surfaced, got %s", w.Body.String())
	}
}

func TestCaptureOrderReplayReturnsExistingOrder(t *testing.T) {
	existing := &models.Order{
		ID:              uuid.New(),
		PayPalOrderID:   "GW-1",
		PayPalCaptureID: "TXN-OLD",
		Status:          models.OrderStatusConfirmed,
	}
	repo := &stubOrderRepo{byRef: map[string]*models.Order{"GW-1": existing}}
	r := newTestRouter(&stubGateway{}, repo)

	body := `{"order_id": "GW-1", "cart": ` + validCart + `}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/orders/capture", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("replay should succeed, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), existing.ID.String()) {
		t.Fatalf("expected the existing order id, got %s", w.Body.String())
	}
}
