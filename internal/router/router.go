package router

import (
	"time"

	"bogogo/internal/config"
	"bogogo/internal/handler"
	"bogogo/internal/identity"
	"bogogo/internal/infra"
	"bogogo/internal/middleware"
	"bogogo/internal/model"
	"bogogo/internal/repository"
	"bogogo/internal/service"
	"bogogo/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Infra groups the process-wide clients built by main and shared with the
// worker pool.
type Infra struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Pagos      infra.PreferenciaPago
	PagoCB     *infra.CircuitBreaker // nil when the provider has no breaker
	Storage    *infra.BucketStorage
	Dispatcher *worker.Dispatcher
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, inf Infra) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.PublicOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	db, rdb := inf.DB, inf.Redis

	// ── Repositories ─────────────────────────────────────────────────────────
	identidadRepo := repository.NewIdentidadRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	multimediaRepo := repository.NewMultimediaRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	calificacionRepo := repository.NewCalificacionRepository(db)
	reporteRepo := repository.NewReporteRepository(db)

	carritoRepo := repository.NewCarritoRepository(rdb)
	guard := repository.NewGuard(rdb)
	denylist := repository.NewTokenDenylist(rdb)
	cache := repository.NewCatalogoCache(rdb, time.Duration(cfg.CatalogCacheTTLMinutes)*time.Minute)

	// ── Services ─────────────────────────────────────────────────────────────
	identitySvc := identity.NewService(identidadRepo, denylist, inf.Dispatcher, identity.OptionsFromConfig(cfg))

	carritoSvc := service.NewCarritoService(carritoRepo, productoRepo)
	checkoutSvc := service.NewCheckoutService(carritoRepo, guard, usuarioRepo, productoRepo, pedidoRepo, inf.Pagos, inf.Dispatcher,
		service.CheckoutOptions{Origin: cfg.PublicOrigin, MetodoPagoID: cfg.PaymentMethodID})
	estadoSvc := service.NewEstadoPedidoService(pedidoRepo, usuarioRepo, carritoRepo, guard, inf.Dispatcher)
	perfilSvc := service.NewPerfilService(usuarioRepo, carritoRepo)
	calificacionSvc := service.NewCalificacionService(calificacionRepo, usuarioRepo, guard)
	dashboardSvc := service.NewDashboardService(reporteRepo, time.Duration(cfg.DashboardTimeoutSeconds)*time.Second)
	categoriaSvc := service.NewCategoriaService(categoriaRepo, cache)
	productoSvc := service.NewProductoService(productoRepo, categoriaRepo, inf.Storage, cache)
	imagenSvc := service.NewImagenService(productoRepo, multimediaRepo, inf.Storage, cache)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(identitySvc)
	perfilH := handler.NewPerfilHandler(perfilSvc)
	carritoH := handler.NewCarritoHandler(carritoSvc)
	checkoutH := handler.NewCheckoutHandler(checkoutSvc, estadoSvc)
	calificacionesH := handler.NewCalificacionesHandler(calificacionSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	imagenesH := handler.NewImagenesHandler(imagenSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, inf.PagoCB))
	r.StaticFS("/storage/"+inf.Storage.Bucket(), inf.Storage.HTTPFileSystem())

	conSesion := []gin.HandlerFunc{middleware.RequireSession()}
	conPerfil := []gin.HandlerFunc{middleware.RequireSession(), middleware.RequireCompleteProfile()}

	v1 := r.Group("/v1",
		middleware.CarritoID(cfg.Env == "production"),
		middleware.Session(identitySvc, usuarioRepo),
	)

	auth := v1.Group("/auth")
	{
		auth.POST("/registro", middleware.AuthRateLimiter(), authH.Registro)
		auth.POST("/login", middleware.AuthRateLimiter(), authH.Login)
		auth.POST("/oauth", authH.OAuth)
		auth.POST("/refresh", authH.Refresh)
		auth.POST("/logout", authH.Logout)
		auth.GET("/confirmar", authH.Confirmar)
	}
	v1.GET("/sesion", authH.Sesion)
	v1.POST("/perfil", append(conSesion, perfilH.Completar)...)

	carrito := v1.Group("/carrito")
	{
		carrito.GET("", carritoH.Obtener)
		carrito.DELETE("", carritoH.Vaciar)
		carrito.PUT("/abierto", carritoH.SetAbierto)
		carrito.POST("/items", carritoH.Agregar)
		carrito.PUT("/items/:producto_id", carritoH.ActualizarCantidad)
		carrito.DELETE("/items/:producto_id", carritoH.Quitar)
	}

	// Checkout decides the profile redirect itself so it can leave the
	// pending-checkout marker behind. Return pages only show the caller's own orders.
	v1.POST("/checkout", append(conSesion, checkoutH.Iniciar)...)
	v1.GET("/checkout/:variante", append(conSesion, checkoutH.Estado)...)
	v1.GET("/pedidos", append(conPerfil, checkoutH.Pedidos)...)
	v1.POST("/calificaciones", append(conPerfil, calificacionesH.Crear)...)

	dash := v1.Group("/dashboard", conPerfil...)
	{
		dash.GET("/admin", middleware.RequireRole(model.RolAdministrador), dashboardH.Admin)
		dash.GET("/vendedor", middleware.RequireRole(model.RolVendedor), middleware.LoadUsuario(usuarioRepo), dashboardH.Vendedor)
	}

	v1.GET("/categorias", categoriasH.Listar)
	v1.GET("/productos", productosH.Listar)
	v1.GET("/productos/:id", productosH.ObtenerPorID)

	vend := v1.Group("/vendedor", append(conPerfil, middleware.RequireRole(model.RolVendedor), middleware.LoadUsuario(usuarioRepo))...)
	{
		vend.GET("/productos", productosH.ListarPropios)
		vend.POST("/productos", productosH.Crear)
		vend.PUT("/productos/:id", productosH.Actualizar)
		vend.DELETE("/productos/:id", productosH.Eliminar)
		vend.POST("/productos/:id/imagenes", imagenesH.Subir)
		vend.DELETE("/productos/:id/imagenes/:imagen_id", imagenesH.Eliminar)
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
