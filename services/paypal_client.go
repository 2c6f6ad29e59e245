package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// CaptureStatusCompleted is the only gateway capture status that counts as
// paid. Anything else is a normal (non-error) result the caller must check.
const CaptureStatusCompleted = "COMPLETED"

// PayPalAPI is the gateway surface the checkout service depends on.
type PayPalAPI interface {
	ExchangeToken(ctx context.Context) (string, error)
	CreateOrder(ctx context.Context, accessToken string, amount float64, currency, description string) (string, error)
	CaptureOrder(ctx context.Context, accessToken, orderID string) (*CaptureResult, error)
}

// CaptureResult is what the gateway reports for a capture attempt.
type CaptureResult struct {
	Status        string
	TransactionID string
	Amount        float64
	Currency      string
}

type PayPalService struct {
	client       *resty.Client
	breaker      *gobreaker.CircuitBreaker
	clientID     string
	clientSecret string
	logger       *zap.Logger
}

func NewPayPalService(baseURL, clientID, clientSecret string, logger *zap.Logger) *PayPalService {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(20 * time.Second).
		SetRetryCount(0) // retries are the client's decision, not ours

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "paypal",
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("gateway circuit breaker state changed",
				zap.String("circuit", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &PayPalService{
		client:       client,
		breaker:      breaker,
		clientID:     clientID,
		clientSecret: clientSecret,
		logger:       logger,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ExchangeToken performs a fresh client-credentials exchange. No caching:
// every operation re-derives its token.
func (s *PayPalService) ExchangeToken(ctx context.Context) (string, error) {
	if s.clientID == "" || s.clientSecret == "" {
		return "", &GatewayAuthError{Err: errors.New("gateway credentials not configured")}
	}

	res, err := s.do(func() (*resty.Response, error) {
		return s.client.R().
			SetContext(ctx).
			SetBasicAuth(s.clientID, s.clientSecret).
			SetHeader("Content-Type", "application/x-www-form-urlencoded").
			SetFormData(map[string]string{"grant_type": "client_credentials"}).
			SetResult(&tokenResponse{}).
			Post("/v1/oauth2/token")
	})
	if err != nil {
		return "", &GatewayAuthError{Err: err}
	}
	if res.IsError() {
		return "", &GatewayAuthError{
			Err: &GatewayRequestError{Op: "token exchange", StatusCode: res.StatusCode(), Body: string(res.Body())},
		}
	}

	token := res.Result().(*tokenResponse)
	if token.AccessToken == "" {
		return "", &GatewayAuthError{Err: errors.New("token endpoint returned no access_token")}
	}
	return token.AccessToken, nil
}

type createOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateOrder asks the gateway to create a payable order for the given
// settlement-currency amount and returns the gateway order id.
func (s *PayPalService) CreateOrder(ctx context.Context, accessToken string, amount float64, currency, description string) (string, error) {
	body := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"description": description,
				"amount": map[string]string{
					"currency_code": currency,
					"value":         formatAmount(amount),
				},
			},
		},
	}

	res, err := s.do(func() (*resty.Response, error) {
		return s.client.R().
			SetContext(ctx).
			SetAuthToken(accessToken).
			SetHeader("Content-Type", "application/json").
			SetBody(body).
			SetResult(&createOrderResponse{}).
			Post("/v2/checkout/orders")
	})
	if err != nil {
		return "", &GatewayRequestError{Op: "create order", Err: err}
	}
	if res.IsError() {
		return "", &GatewayRequestError{Op: "create order", StatusCode: res.StatusCode(), Body: string(res.Body())}
	}

	out := res.Result().(*createOrderResponse)
	if out.ID == "" {
		return "", &GatewayRequestError{Op: "create order", StatusCode: res.StatusCode(), Body: "response missing order id"}
	}
	return out.ID, nil
}

type captureOrderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
				Amount struct {
					CurrencyCode string `json:"currency_code"`
					Value        string `json:"value"`
				} `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CaptureOrder instructs the gateway to capture funds for orderID. A
// non-COMPLETED status is returned to the caller as data, not as an error.
func (s *PayPalService) CaptureOrder(ctx context.Context, accessToken, orderID string) (*CaptureResult, error) {
	res, err := s.do(func() (*resty.Response, error) {
		return s.client.R().
			SetContext(ctx).
			SetAuthToken(accessToken).
			SetHeader("Content-Type", "application/json").
			SetResult(&captureOrderResponse{}).
			Post("/v2/checkout/orders/" + orderID + "/capture")
	})
	if err != nil {
		return nil, &GatewayRequestError{Op: "capture order", Err: err}
	}
	if res.IsError() {
		return nil, &GatewayRequestError{Op: "capture order", StatusCode: res.StatusCode(), Body: string(res.Body())}
	}

	out := res.Result().(*captureOrderResponse)
	result := &CaptureResult{Status: out.Status}

	for _, pu := range out.PurchaseUnits {
		for _, cpt := range pu.Payments.Captures {
			result.TransactionID = cpt.ID
			result.Currency = cpt.Amount.CurrencyCode
			if amount, perr := strconv.ParseFloat(cpt.Amount.Value, 64); perr == nil {
				result.Amount = amount
			}
		}
	}

	return result, nil
}

// do routes a gateway call through the circuit breaker. Only transport
// failures trip the breaker; HTTP error statuses are handled per call.
func (s *PayPalService) do(fn func() (*resty.Response, error)) (*resty.Response, error) {
	out, err := s.breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, err
	}
	return out.(*resty.Response), nil
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
