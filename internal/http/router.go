package http

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/teamtune/payrollhub/internal/auth"
	"github.com/teamtune/payrollhub/internal/cache"
	"github.com/teamtune/payrollhub/internal/config"
	"github.com/teamtune/payrollhub/internal/domain/user"
	"github.com/teamtune/payrollhub/internal/http/handlers"
	"github.com/teamtune/payrollhub/internal/http/middlewares"
	"github.com/teamtune/payrollhub/internal/observability"
	"github.com/teamtune/payrollhub/internal/payments"
	"github.com/teamtune/payrollhub/internal/repo/postgres"
)

const maxRequestBody = 1 << 20 // 1 MiB

// Deps carries the swappable pieces of the router. Tests plug in memory
// repos and fakes; production wiring in NewRouter fills it from the pool.
type Deps struct {
	Users      handlers.UsersStore
	Worksheets handlers.WorksheetsStore
	Payments   handlers.PaymentsStore
	Intents    handlers.IntentCreator

	Tokens  *auth.Manager
	Revoker auth.Revoker

	Metrics  *observability.Prom
	Gatherer prometheus.Gatherer

	Ping func() error
}

// NewRouter wires the production dependency graph: postgres repos, the
// redis-backed revocation registry when configured, and the Stripe bridge.
func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	var revoker auth.Revoker

	if cfg.RedisAddr != "" {
		revoker = auth.NewRedisRevoker(auth.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	} else {
		log.Warn("redis not configured, token revocation is per-process only")
		revoker = auth.NewMemoryRevoker()
	}

	deps := Deps{
		Users:      postgres.NewUsersRepo(pool, prom),
		Worksheets: postgres.NewWorksheetsRepo(pool, prom),
		Payments:   postgres.NewPaymentsRepo(pool, prom),
		Intents:    payments.NewStripeBridge(cfg.StripeSecretKey),
		Tokens:     auth.NewManager(cfg.JWTSecret, cfg.TokenTTL),
		Revoker:    revoker,
		Metrics:    prom,
		Gatherer:   reg,
		Ping: func() error {
			if pool == nil {
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
			defer cancel()

			return pool.Ping(ctx)
		},
	}

	return NewRouterWithDeps(cfg, deps)
}

func NewRouterWithDeps(cfg config.Config, d Deps) *gin.Engine {
	if cfg.Env != "dev" && os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	prom := d.Metrics

	if prom == nil {
		reg := prometheus.NewRegistry()
		prom = observability.NewProm(reg)
		d.Gatherer = reg
	}

	r := gin.New()

	// middleware, outermost first

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(otelgin.Middleware("payrollhub"))
	r.Use(prom.GinHandleMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(maxRequestBody))

	// health + metrics
	health := handlers.NewHealthHandler(d.Ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// handlers
	authHandler := handlers.NewAuthHandler(d.Tokens, d.Revoker, cfg)
	usersHandler := handlers.NewUsersHandlerWithCache(d.Users, cache.New(30*time.Second))
	worksheetsHandler := handlers.NewWorksheetsHandler(d.Worksheets)
	paymentsHandler := handlers.NewPaymentsHandler(d.Payments, d.Intents)

	// abuse controls on the unauthenticated write paths
	tokenLimiter := middlewares.NewRateLimiter(30, time.Minute)
	registerLimiter := middlewares.NewRateLimiter(10, time.Minute)

	// session routes
	r.POST("/jwt", tokenLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.IssueToken)
	r.POST("/logout", authHandler.Logout)

	// open routes
	r.GET("/user/:email", usersHandler.GetUserByEmail)
	r.POST("/users", registerLimiter.RateLimiterMiddleware(middlewares.KeyByEmailOrIP), usersHandler.RegisterUser)
	r.POST("/worksheet", worksheetsHandler.CreateEntry)
	r.POST("/payments", paymentsHandler.CreatePayment)
	r.POST("/paymentintent", paymentsHandler.CreateIntent)

	// gated routes: the gate verifies the cookie, the role stage checks the
	// decoded role, ownership checks for :email routes live in the handlers
	gate := middlewares.NewAuthMiddleware(d.Tokens, d.Revoker, cfg.SessionCookie)

	authed := r.Group("", gate.RequireAuth())

	authed.GET("/payments/:email", paymentsHandler.ListByEmail)
	authed.GET("/worksheet/:email", worksheetsHandler.ListByEmail)

	staff := authed.Group("", gate.RequireRole(user.RoleHR, user.RoleAdmin))

	staff.GET("/employee-list", usersHandler.EmployeeList)
	staff.GET("/all-employee-list", usersHandler.AllEmployeeList)
	staff.GET("/worksheets", worksheetsHandler.ListAll)
	staff.PATCH("/users/:id", usersHandler.VerifyUser)

	admin := authed.Group("", gate.RequireRole(user.RoleAdmin))

	admin.DELETE("/delete/:userId", usersHandler.DeleteUser)
	admin.PATCH("/make-hr/:userId", usersHandler.MakeHR)
	admin.PATCH("/fire/:userId", usersHandler.Fire)

	return r
}
