package router

import (
	"time"

	"github.com/rsg28/TuSalud-Backend/internal/config"
	"github.com/rsg28/TuSalud-Backend/internal/handler"
	"github.com/rsg28/TuSalud-Backend/internal/middleware"
	"github.com/rsg28/TuSalud-Backend/internal/model"
	"github.com/rsg28/TuSalud-Backend/internal/repository"
	"github.com/rsg28/TuSalud-Backend/internal/service"
	"github.com/rsg28/TuSalud-Backend/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	empresaRepo := repository.NewEmpresaRepository(db)
	sedeRepo := repository.NewSedeRepository(db)
	examenRepo := repository.NewExamenRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	cotizacionRepo := repository.NewCotizacionRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)
	pacienteRepo := repository.NewPacienteRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	empresaSvc := service.NewEmpresaService(empresaRepo)
	pedidoSvc := service.NewPedidoService(pedidoRepo, cotizacionRepo, facturaRepo, pacienteRepo, empresaRepo, sedeRepo, examenRepo)
	cotizacionSvc := service.NewCotizacionService(cotizacionRepo, pedidoRepo, empresaRepo, dispatcher)
	facturaSvc := service.NewFacturaService(facturaRepo, pedidoRepo, cotizacionRepo)
	pacienteSvc := service.NewPacienteService(pacienteRepo, pedidoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	empresasH := handler.NewEmpresasHandler(empresaSvc)
	sedesH := handler.NewSedesHandler(sedeRepo)
	preciosH := handler.NewPreciosHandler(examenRepo, rdb)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	cotizacionesH := handler.NewCotizacionesHandler(cotizacionSvc)
	facturasH := handler.NewFacturasHandler(facturaSvc)
	pacientesH := handler.NewPacientesHandler(pacienteSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
		auth.POST("/register", authH.Registrar)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	api := r.Group("/api", jwtMW)
	{
		staff := middleware.RequireRole(model.RolManager, model.RolVendedor)
		todos := middleware.RequireRole(model.RolManager, model.RolVendedor, model.RolCliente)

		pedidos := api.Group("/pedidos", todos)
		{
			pedidos.POST("", pedidosH.Crear)
			pedidos.GET("", pedidosH.Listar)
			pedidos.GET("/mios", pedidosH.ListarMios)
			pedidos.GET("/con-cotizacion-aprobada", pedidosH.ListarConCotizacionAprobada)
			pedidos.GET("/:pedido_id", pedidosH.Obtener)
			pedidos.GET("/:pedido_id/estado", pedidosH.ObtenerEstado)
			pedidos.GET("/:pedido_id/pacientes-examenes", pedidosH.PacientesExamenes)
			pedidos.GET("/:pedido_id/pacientes-completados", pedidosH.PacientesCompletados)
			pedidos.GET("/:pedido_id/historial", pedidosH.Historial)
			pedidos.POST("/:pedido_id/examenes", pedidosH.AgregarExamen)
			pedidos.PATCH("/:pedido_id/marcar-listo", pedidosH.MarcarListo)
			pedidos.POST("/:pedido_id/cargar-empleados", pedidosH.CargarEmpleados)
			pedidos.DELETE("/:pedido_id", pedidosH.Cancelar)
			// Estado libre y cierre — solo personal del laboratorio
			pedidos.PATCH("/:pedido_id/estado", staff, pedidosH.ActualizarEstado)
			pedidos.PATCH("/:pedido_id/completar", staff, pedidosH.MarcarCompletado)
		}

		cotizaciones := api.Group("/cotizaciones", todos)
		{
			cotizaciones.GET("", cotizacionesH.Listar)
			cotizaciones.GET("/enviadas-al-manager", middleware.RequireRole(model.RolManager), cotizacionesH.ListarEnviadasAlManager)
			cotizaciones.GET("/:cotizacion_id", cotizacionesH.Obtener)
			cotizaciones.GET("/:cotizacion_id/items", cotizacionesH.Items)
			cotizaciones.POST("", cotizacionesH.Crear)
			cotizaciones.PUT("/:cotizacion_id", cotizacionesH.Actualizar)
			cotizaciones.PATCH("/:cotizacion_id/estado", cotizacionesH.ActualizarEstado)
			cotizaciones.DELETE("/:cotizacion_id", staff, cotizacionesH.Eliminar)
		}

		facturas := api.Group("/facturas", staff)
		{
			facturas.POST("", facturasH.Crear)
			facturas.GET("", facturasH.Listar)
			facturas.GET("/pedido/:pedido_id", facturasH.ListarPorPedido)
			facturas.GET("/:factura_id", facturasH.Obtener)
			facturas.PUT("/:factura_id", facturasH.Actualizar)
			facturas.DELETE("/:factura_id", facturasH.Eliminar)
		}

		pacientes := api.Group("/pacientes", todos)
		{
			pacientes.GET("", pacientesH.Listar)
			pacientes.POST("", pacientesH.Crear)
			pacientes.GET("/:paciente_id", pacientesH.Obtener)
			pacientes.PUT("/:paciente_id", pacientesH.Actualizar)
			pacientes.PATCH("/:paciente_id/marcar-examen", staff, pacientesH.MarcarExamen)
			pacientes.DELETE("/:paciente_id", staff, pacientesH.Eliminar)
		}

		empresas := api.Group("/empresas", todos)
		{
			empresas.GET("", empresasH.Listar)
			empresas.GET("/mias", empresasH.Mias)
			empresas.GET("/:empresa_id", empresasH.Obtener)
			empresas.POST("", staff, empresasH.Crear)
			empresas.PUT("/:empresa_id", staff, empresasH.Actualizar)
			empresas.DELETE("/:empresa_id", middleware.RequireRole(model.RolManager), empresasH.Eliminar)
		}

		api.GET("/sedes", todos, sedesH.Listar)

		precios := api.Group("/precios", todos)
		{
			precios.GET("/matriz", preciosH.Matriz)
			precios.GET("/buscar", preciosH.Buscar)
		}

		usuarios := api.Group("/usuarios", middleware.RequireRole(model.RolManager))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.POST("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
