package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bogogo/internal/identity"
	"bogogo/internal/model"
	"bogogo/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() { gin.SetMode(gin.TestMode) }

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubIdentidad struct {
	identity.Service
	porToken map[string]identity.Identity
}

func (s *stubIdentidad) GetUser(_ context.Context, token string) (*identity.Identity, error) {
	ident, ok := s.porToken[token]
	if !ok {
		return nil, identity.ErrInvalidToken
	}
	return &ident, nil
}

type stubPerfiles struct {
	roles map[string]int
	err   error
}

var _ session.Perfiles = (*stubPerfiles)(nil)

func (s *stubPerfiles) RolPorUUID(_ context.Context, id string) (*int, error) {
	if s.err != nil {
		return nil, s.err
	}
	rol, ok := s.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rol, nil
}

func (s *stubPerfiles) ExistePorUUID(_ context.Context, id string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.roles[id]
	return ok, nil
}

type stubUsuarios struct {
	usuarios map[string]*model.Usuario
	err      error
}

var _ UsuarioLookup = (*stubUsuarios)(nil)

func (s *stubUsuarios) FindByUUID(_ context.Context, id string) (*model.Usuario, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func proveedor() *stubIdentidad {
	return &stubIdentidad{porToken: map[string]identity.Identity{
		"tok-ana":   {ID: "id-ana", Email: "ana@example.com"},
		"tok-luis":  {ID: "id-luis", Email: "luis@example.com"},
		"tok-admin": {ID: "id-admin", Email: "admin@example.com"},
	}}
}

func perfiles() *stubPerfiles {
	return &stubPerfiles{roles: map[string]int{"id-ana": 3, "id-admin": 1}}
}

func hacer(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func cuerpo(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// ── Session gating ────────────────────────────────────────────────────────────

func routerSesion(p *stubPerfiles, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Session(proveedor(), p))
	handlers := append(extra, func(c *gin.Context) {
		snap := GetResolver(c).Snapshot()
		c.JSON(http.StatusOK, gin.H{"estado": string(snap.Estado), "rol": snap.Rol.String()})
	})
	r.GET("/x", handlers...)
	return r
}

func TestSession_ResuelveRolYPerfil(t *testing.T) {
	w := hacer(routerSesion(perfiles()), http.MethodGet, "/x", "tok-ana")

	require.Equal(t, http.StatusOK, w.Code)
	body := cuerpo(t, w)
	assert.Equal(t, string(session.EstadoPerfilCompleto), body["estado"])
	assert.Equal(t, model.RolVendedor.String(), body["rol"])
}

func TestSession_TokenInvalidoQuedaAnonimo(t *testing.T) {
	w := hacer(routerSesion(perfiles()), http.MethodGet, "/x", "tok-falso")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(session.EstadoAnonimo), cuerpo(t, w)["estado"])
}

func TestRequireSession_AnonimoEs401(t *testing.T) {
	r := routerSesion(perfiles(), RequireSession())

	assert.Equal(t, http.StatusUnauthorized, hacer(r, http.MethodGet, "/x", "").Code)
	assert.Equal(t, http.StatusOK, hacer(r, http.MethodGet, "/x", "tok-luis").Code)
}

func TestRequireCompleteProfile(t *testing.T) {
	r := routerSesion(perfiles(), RequireSession(), RequireCompleteProfile())

	w := hacer(r, http.MethodGet, "/x", "tok-luis")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, RutaCompletarPerfil, cuerpo(t, w)["redirect"])

	assert.Equal(t, http.StatusOK, hacer(r, http.MethodGet, "/x", "tok-ana").Code)
}

func TestRequireCompleteProfile_DesconocidoEs503SinRedirect(t *testing.T) {
	p := perfiles()
	p.err = errors.New("db caida")
	r := routerSesion(p, RequireSession(), RequireCompleteProfile())

	w := hacer(r, http.MethodGet, "/x", "tok-ana")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	_, tieneRedirect := cuerpo(t, w)["redirect"]
	assert.False(t, tieneRedirect)
}

func TestRequireRole(t *testing.T) {
	r := routerSesion(perfiles(), RequireSession(), RequireRole(model.RolAdministrador))

	assert.Equal(t, http.StatusOK, hacer(r, http.MethodGet, "/x", "tok-admin").Code)
	assert.Equal(t, http.StatusForbidden, hacer(r, http.MethodGet, "/x", "tok-ana").Code)
	assert.Equal(t, http.StatusForbidden, hacer(r, http.MethodGet, "/x", "tok-luis").Code, "sin perfil es comprador")
}

func TestLoadUsuario(t *testing.T) {
	usuarios := &stubUsuarios{usuarios: map[string]*model.Usuario{"id-ana": {ID: 9, UUID: "id-ana"}}}
	r := gin.New()
	r.Use(Session(proveedor(), perfiles()))
	r.GET("/x", LoadUsuario(usuarios), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUsuario(c).ID})
	})

	w := hacer(r, http.MethodGet, "/x", "tok-ana")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 9, cuerpo(t, w)["id"])

	assert.Equal(t, http.StatusConflict, hacer(r, http.MethodGet, "/x", "tok-luis").Code)
	assert.Equal(t, http.StatusUnauthorized, hacer(r, http.MethodGet, "/x", "").Code)

	usuarios.err = errors.New("db caida")
	assert.Equal(t, http.StatusServiceUnavailable, hacer(r, http.MethodGet, "/x", "tok-ana").Code)
}

// ── Cart id ───────────────────────────────────────────────────────────────────

func routerCarrito() *gin.Engine {
	r := gin.New()
	r.Use(CarritoID(false))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, GetCarritoID(c)) })
	return r
}

func TestCarritoID_GeneraYReutiliza(t *testing.T) {
	r := routerCarrito()

	w := hacer(r, http.MethodGet, "/x", "")
	id := w.Body.String()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, w.Header().Get(CarritoHeader))
	require.NotEmpty(t, w.Result().Cookies())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(&http.Cookie{Name: CarritoCookie, Value: id})
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	assert.Equal(t, id, w2.Body.String())
}

func TestCarritoID_ValorMalformadoSeReemplaza(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(CarritoHeader, "../../otro")
	w := httptest.NewRecorder()
	routerCarrito().ServeHTTP(w, req)

	assert.NotEqual(t, "../../otro", w.Body.String())
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
}

// ── Ambient ───────────────────────────────────────────────────────────────────

func TestRequestID_PropagaOGenera(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())

	w = hacer(r, http.MethodGet, "/x", "")
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))
}

func TestRecovery_PanicEs500SinDetalle(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/x", func(*gin.Context) { panic("secreto interno") })

	w := hacer(r, http.MethodGet, "/x", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secreto")
}

func TestErrorHandler_ErrorNoRespondidoEs500(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/x", func(c *gin.Context) { _ = c.Error(errors.New("pq: conexion rechazada")) })

	w := hacer(r, http.MethodGet, "/x", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, msgErrorInterno, cuerpo(t, w)["detail"])
}

func TestCORS_PreflightConOrigen(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://bogogo.test"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := hacer(r, http.MethodOptions, "/x", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://bogogo.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestVentana_LimitaYReiniciaPorIP(t *testing.T) {
	v := newVentana(2, time.Minute)
	reloj := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return reloj }

	ok, _ := v.permitir("1.1.1.1")
	assert.True(t, ok)
	ok, _ = v.permitir("1.1.1.1")
	assert.True(t, ok)
	ok, _ = v.permitir("1.1.1.1")
	assert.False(t, ok)
	ok, _ = v.permitir("2.2.2.2")
	assert.True(t, ok, "otra IP tiene su propia ventana")

	reloj = reloj.Add(time.Minute + time.Second)
	ok, _ = v.permitir("1.1.1.1")
	assert.True(t, ok)
}

func TestVentana_PurgaEntradasVencidas(t *testing.T) {
	v := newVentana(1, time.Second)
	reloj := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return reloj }

	v.permitir("1.1.1.1")
	reloj = reloj.Add(purgeInterval)
	v.permitir("2.2.2.2")

	assert.Len(t, v.entradas, 1)
}
