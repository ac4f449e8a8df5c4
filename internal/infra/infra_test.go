package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"bogogo/internal/model"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78"
)

// ── Circuit breaker ───────────────────────────────────────────────────────────

func TestCircuitBreaker_AbreTrasFallosYProbeCierra(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, OpenTimeout: time.Minute})
	reloj := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return reloj }
	boom := errors.New("boom")

	assert.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
	assert.Equal(t, CBClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
	assert.Equal(t, CBOpen, cb.State())

	llamado := false
	err := cb.Execute(func() error { llamado = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, llamado, "abierto no invoca")

	reloj = reloj.Add(time.Minute)
	assert.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_ProbeFallidoReabre(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Second})
	reloj := time.Now()
	cb.now = func() time.Time { return reloj }

	_ = cb.Execute(func() error { return errors.New("x") })
	reloj = reloj.Add(time.Second)
	_ = cb.Execute(func() error { return errors.New("x") })

	assert.Equal(t, CBOpen, cb.State())
}

func TestCircuitBreaker_ExitoReiniciaContador(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2})

	_ = cb.Execute(func() error { return errors.New("x") })
	_ = cb.Execute(func() error { return nil })
	_ = cb.Execute(func() error { return errors.New("x") })

	assert.Equal(t, CBClosed, cb.State())
}

// ── Payment function client ───────────────────────────────────────────────────

func preferenciaDePrueba() PreferenciaRequest {
	return PreferenciaRequest{
		PedidoID:   41,
		SuccessURL: "https://bogogo.test/checkout/success?orderId=41",
		FailureURL: "https://bogogo.test/checkout/failure?orderId=41",
		PendingURL: "https://bogogo.test/checkout/pending?orderId=41",
		Items:      []PreferenciaItem{{Titulo: "Camiseta", Cantidad: 2, PrecioUnitario: decimal.NewFromInt(100)}},
	}
}

func TestFuncionPago_Exitoso(t *testing.T) {
	var recibido map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secreto", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&recibido))
		_, _ = w.Write([]byte(`{"init_point":"https://mp.test/init/41"}`))
	}))
	defer srv.Close()

	c := NewFuncionPagoClient(srv.URL, "secreto", nil)
	ip, err := c.CrearPreferencia(context.Background(), preferenciaDePrueba())

	require.NoError(t, err)
	assert.Equal(t, "https://mp.test/init/41", ip)
	assert.EqualValues(t, 41, recibido["orderId"])
}

func TestFuncionPago_RechazoConMensajeNoCuentaComoFallo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"access_token invalido"}`))
	}))
	defer srv.Close()
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1})
	c := NewFuncionPagoClient(srv.URL, "", cb)

	_, err := c.CrearPreferencia(context.Background(), preferenciaDePrueba())

	var rechazo *PreferenciaError
	require.ErrorAs(t, err, &rechazo)
	assert.Equal(t, "access_token invalido", rechazo.Error())
	assert.Equal(t, CBClosed, cb.State())
}

func TestFuncionPago_RechazoSinMensajeUsaGenerico(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := NewFuncionPagoClient(srv.URL, "", nil).CrearPreferencia(context.Background(), preferenciaDePrueba())

	assert.EqualError(t, err, "Error al crear la preferencia de pago")
}

func TestFuncionPago_5xxAbreElCircuito(t *testing.T) {
	var llamadas atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		llamadas.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: time.Hour})
	c := NewFuncionPagoClient(srv.URL, "", cb)

	for i := 0; i < 2; i++ {
		_, err := c.CrearPreferencia(context.Background(), preferenciaDePrueba())
		require.Error(t, err)
	}
	_, err := c.CrearPreferencia(context.Background(), preferenciaDePrueba())

	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), llamadas.Load())
}

func TestFuncionPago_RespuestaMalformadaEsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}))
	defer srv.Close()
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Hour})

	ip, err := NewFuncionPagoClient(srv.URL, "", cb).CrearPreferencia(context.Background(), preferenciaDePrueba())

	require.Error(t, err)
	assert.Empty(t, ip)
	var rechazo *PreferenciaError
	assert.False(t, errors.As(err, &rechazo))
	assert.Equal(t, CBOpen, cb.State())
}

// stripeDePrueba points a StripePagoClient at srv without network retries.
func stripeDePrueba(srv *httptest.Server) *StripePagoClient {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		HTTPClient:        srv.Client(),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return newStripePagoClient("sk_test_123", "cop", backend)
}

func TestStripePago_CreaSesionYDevuelveURL(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		form = make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_41","object":"checkout.session","url":"https://checkout.stripe.test/cs_test_41"}`))
	}))
	defer srv.Close()

	req := preferenciaDePrueba()
	req.Items = []PreferenciaItem{
		{Titulo: "Camiseta", Cantidad: 2, PrecioUnitario: decimal.RequireFromString("45000.50")},
		{Titulo: "Gorra", Cantidad: 1, PrecioUnitario: decimal.RequireFromString("12.345")},
	}
	ip, err := stripeDePrueba(srv).CrearPreferencia(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.test/cs_test_41", ip)
	assert.Equal(t, "payment", form["mode"])
	assert.Equal(t, "41", form["client_reference_id"])
	assert.Equal(t, req.SuccessURL, form["success_url"])
	assert.Equal(t, req.FailureURL, form["cancel_url"])
	assert.Equal(t, "cop", form["line_items[0][price_data][currency]"])
	assert.Equal(t, "Camiseta", form["line_items[0][price_data][product_data][name]"])
	assert.Equal(t, "4500050", form["line_items[0][price_data][unit_amount]"])
	assert.Equal(t, "2", form["line_items[0][quantity]"])
	assert.Equal(t, "1235", form["line_items[1][price_data][unit_amount]"])
	assert.Equal(t, "1", form["line_items[1][quantity]"])
}

func TestStripePago_RechazoConMensajeSeMuestraTalCual(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid currency: xyz"}}`))
	}))
	defer srv.Close()

	_, err := stripeDePrueba(srv).CrearPreferencia(context.Background(), preferenciaDePrueba())

	var rechazo *PreferenciaError
	require.ErrorAs(t, err, &rechazo)
	assert.Equal(t, "Invalid currency: xyz", rechazo.Error())
}

func TestStripePago_Error5xxNoEsRechazo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"type":"api_error","message":"internal"}}`))
	}))
	defer srv.Close()

	_, err := stripeDePrueba(srv).CrearPreferencia(context.Background(), preferenciaDePrueba())

	require.Error(t, err)
	var rechazo *PreferenciaError
	assert.False(t, errors.As(err, &rechazo))
}

// ── Storage ───────────────────────────────────────────────────────────────────

func TestBucketStorage_SubirURLYBorrar(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewBucketStorageFs(fs, "product-images", "http://localhost:8000/")
	ctx := context.Background()

	require.NoError(t, s.Upload(ctx, "p1_a.png", bytes.NewReader([]byte("img"))))
	url := s.PublicURL("p1_a.png")
	assert.Equal(t, "http://localhost:8000/storage/product-images/p1_a.png", url)

	op, ok := s.ObjectPath(url)
	require.True(t, ok)
	assert.Equal(t, "p1_a.png", op)

	datos, err := afero.ReadFile(s.Fs(), "p1_a.png")
	require.NoError(t, err)
	assert.Equal(t, "img", string(datos))

	require.NoError(t, s.Remove(ctx, op, "no-existe.png"))
	existe, _ := afero.Exists(fs, "product-images/p1_a.png")
	assert.False(t, existe)
}

func TestBucketStorage_HTTPNoListaDirectorios(t *testing.T) {
	s := NewBucketStorageFs(afero.NewMemMapFs(), "product-images", "")
	ctx := context.Background()
	require.NoError(t, s.Upload(ctx, "p1_a.png", bytes.NewReader([]byte("img"))))
	require.NoError(t, s.Upload(ctx, "sub/p2_b.png", bytes.NewReader([]byte("img2"))))
	srv := httptest.NewServer(http.FileServer(s.HTTPFileSystem()))
	defer srv.Close()

	casos := map[string]int{
		"/p1_a.png":      http.StatusOK,
		"/sub/p2_b.png":  http.StatusOK,
		"/":              http.StatusNotFound,
		"/sub/":          http.StatusNotFound,
		"/no-existe.png": http.StatusNotFound,
	}
	for ruta, status := range casos {
		t.Run(ruta, func(t *testing.T) {
			resp, err := srv.Client().Get(srv.URL + ruta)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, status, resp.StatusCode)
		})
	}
}

func TestBucketStorage_NoSobrescribeNiEscapa(t *testing.T) {
	s := NewBucketStorageFs(afero.NewMemMapFs(), "product-images", "")
	ctx := context.Background()

	require.NoError(t, s.Upload(ctx, "a.png", strings.NewReader("1")))
	assert.Error(t, s.Upload(ctx, "a.png", strings.NewReader("2")))
	require.NoError(t, s.Upload(ctx, "../../etc/passwd", strings.NewReader("x")))
	existe, _ := afero.Exists(s.Fs(), "etc/passwd")
	assert.True(t, existe, "la ruta queda dentro del bucket")
	assert.Error(t, s.Upload(ctx, "/", strings.NewReader("x")))

	_, ok := s.ObjectPath("https://otro.host/imagen.png")
	assert.False(t, ok)
}

// ── PDF ───────────────────────────────────────────────────────────────────────

func TestGenerarReciboPDF(t *testing.T) {
	dir := t.TempDir()
	pedido := &model.Pedido{
		ID:        41,
		Estado:    model.PedidoPagado,
		CreatedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		Pago:      &model.Pago{Estado: model.PagoAprobado},
		Items: []model.PedidoItem{
			{Cantidad: 2, PrecioTotal: decimal.NewFromInt(200), Producto: &model.Producto{Nombre: "Camiseta básica de algodón orgánico con cuello redondo"}},
			{Cantidad: 1, PrecioTotal: decimal.NewFromInt(50)},
		},
	}

	path, err := GenerarReciboPDF(pedido, &model.Usuario{Nombre: "Ana", Apellido: "Gómez"}, dir)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(path, "recibo_41.pdf"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
