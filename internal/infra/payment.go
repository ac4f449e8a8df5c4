package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// PreferenciaItem is one order line as shown on the provider's checkout page.
type PreferenciaItem struct {
	Titulo         string          `json:"title"`
	Cantidad       int             `json:"quantity"`
	PrecioUnitario decimal.Decimal `json:"unit_price"`
}

// PreferenciaRequest carries the order id and the three return URLs that embed it.
type PreferenciaRequest struct {
	PedidoID   int               `json:"orderId"`
	SuccessURL string            `json:"successUrl"`
	FailureURL string            `json:"failureUrl"`
	PendingURL string            `json:"pendingUrl"`
	Items      []PreferenciaItem `json:"items,omitempty"`
}

// PreferenciaPago creates a payment preference and returns the redirect URL
// (init_point). An empty URL with a nil error is a valid provider answer;
// callers decide how to surface it.
type PreferenciaPago interface {
	CrearPreferencia(ctx context.Context, req PreferenciaRequest) (string, error)
}

// PreferenciaError is a rejection reported by the provider. Its message is
// shown to the user as is.
type PreferenciaError struct {
	Mensaje string
}

func (e *PreferenciaError) Error() string { return e.Mensaje }

// ── Function endpoint ─────────────────────────────────────────────────────────

type preferenciaResponse struct {
	InitPoint string `json:"init_point"`
	Error     string `json:"error"`
	Message   string `json:"message"`
}

// FuncionPagoClient calls the create-mp-preference HTTP function. Transport
// failures and 5xx answers count against the circuit breaker; provider
// rejections do not.
type FuncionPagoClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
	cb         *CircuitBreaker
}

func NewFuncionPagoClient(url, apiKey string, cb *CircuitBreaker) *FuncionPagoClient {
	if cb == nil {
		cb = NewCircuitBreaker(DefaultCBConfig())
	}
	return &FuncionPagoClient{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cb:         cb,
	}
}

func (c *FuncionPagoClient) CrearPreferencia(ctx context.Context, req PreferenciaRequest) (string, error) {
	var initPoint string
	var rechazo *PreferenciaError
	err := c.cb.Execute(func() error {
		ip, err := c.invocar(ctx, req)
		if errors.As(err, &rechazo) {
			return nil
		}
		initPoint = ip
		return err
	})
	if rechazo != nil {
		return "", rechazo
	}
	return initPoint, err
}

func (c *FuncionPagoClient) invocar(ctx context.Context, payload PreferenciaRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("pago: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("pago: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("pago: function unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("pago: read response: %w", err)
	}
	var result preferenciaResponse
	decodeErr := json.Unmarshal(raw, &result)

	switch {
	case resp.StatusCode >= 500:
		return "", fmt.Errorf("pago: function returned %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		msg := result.Error
		if msg == "" {
			msg = result.Message
		}
		if msg == "" {
			msg = "Error al crear la preferencia de pago"
		}
		return "", &PreferenciaError{Mensaje: msg}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("pago: decode response (status %d): %w", resp.StatusCode, decodeErr)
	}
	return result.InitPoint, nil
}

// ── Stripe ────────────────────────────────────────────────────────────────────

// StripePagoClient creates a Checkout Session and answers its URL as the init_point.
// 4xx rejections carrying a message are surfaced as PreferenciaError.
type StripePagoClient struct {
	sc       *client.API
	currency string
}

func NewStripePagoClient(secretKey, currency string) *StripePagoClient {
	return newStripePagoClient(secretKey, currency, nil)
}

// newStripePagoClient uses backend for every Stripe call; nil keeps the
// library defaults.
func newStripePagoClient(secretKey, currency string, backend stripe.Backend) *StripePagoClient {
	var backends *stripe.Backends
	if backend != nil {
		backends = &stripe.Backends{API: backend, Connect: backend, Uploads: backend}
	}
	sc := &client.API{}
	sc.Init(secretKey, backends)
	return &StripePagoClient{sc: sc, currency: currency}
}

func (c *StripePagoClient) CrearPreferencia(ctx context.Context, req PreferenciaRequest) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Items))
	for _, it := range req.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(c.currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(it.Titulo),
				},
				UnitAmount: stripe.Int64(it.PrecioUnitario.Mul(decimal.NewFromInt(100)).Round(0).IntPart()),
			},
			Quantity: stripe.Int64(int64(it.Cantidad)),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Params:            stripe.Params{Context: ctx},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.FailureURL),
		ClientReferenceID: stripe.String(strconv.Itoa(req.PedidoID)),
		LineItems:         lineItems,
	}
	sess, err := c.sc.CheckoutSessions.New(params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) && serr.HTTPStatusCode < 500 && serr.Msg != "" {
			return "", &PreferenciaError{Mensaje: serr.Msg}
		}
		return "", fmt.Errorf("pago: stripe checkout session: %w", err)
	}
	return sess.URL, nil
}
