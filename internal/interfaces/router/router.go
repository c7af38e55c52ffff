package router

import (
	authsvc "zeva-backend/internal/application/auth"
	balancesvc "zeva-backend/internal/application/balances"
	orgsvc "zeva-backend/internal/application/org"
	reassesssvc "zeva-backend/internal/application/reassessments"
	reportsvc "zeva-backend/internal/application/reports"
	transfersvc "zeva-backend/internal/application/transfers"
	userssvc "zeva-backend/internal/application/users"
	"zeva-backend/internal/config"
	"zeva-backend/internal/events"
	"zeva-backend/internal/infrastructure/database"
	authhandler "zeva-backend/internal/interfaces/handlers/auth"
	balancehandler "zeva-backend/internal/interfaces/handlers/balances"
	healthhandler "zeva-backend/internal/interfaces/handlers/health"
	orghandler "zeva-backend/internal/interfaces/handlers/org"
	reporthandler "zeva-backend/internal/interfaces/handlers/reports"
	transferhandler "zeva-backend/internal/interfaces/handlers/transfers"
	userhandler "zeva-backend/internal/interfaces/handlers/users"
	"zeva-backend/internal/middleware"
	"zeva-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with all middleware and routes wired.
// The DB and Redis handles are returned so the caller can ping and close
// them.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
	}))

	sessionHandler, rdb, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Post("/health/reset", hh.Reset)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
		hh.DB = &gormDBPinger{db: db}
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	var userFinder authsvc.UserFinder
	if db != nil {
		userFinder = &authsvc.GormUserFinder{DB: db}
	}
	ah := &authhandler.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	if db != nil && rdb != nil {
		publisher := &events.Publisher{Rdb: rdb, Channel: cfg.EventChannel}

		// Users. Registration is public; role changes need manage_users.
		us := &userssvc.Service{DB: db}
		uh := &userhandler.Handlers{Service: us}
		app.Post("/api/v1/users", uh.Create)
		ug := app.Group("/api/v1/users", middleware.RequireAuth())
		ug.Get("/", middleware.AuthorizePermission(constants.ManageUsers), uh.List)
		ug.Patch("/:id/role", middleware.AuthorizePermission(constants.ManageUsers), uh.UpdateRole)

		// Organizations
		os := &orgsvc.Service{DB: db}
		oh := &orghandler.Handlers{Service: os}
		og := app.Group("/api/v1/orgs", middleware.RequireAuth())
		og.Post("/", middleware.AuthorizePermission(constants.CreateOrg), oh.CreateOrg)
		og.Get("/", middleware.AuthorizePermission(constants.ViewData), oh.ListOrgs)
		og.Get("/me", middleware.AuthorizePermission(constants.ViewData), oh.ViewOrg)
		og.Patch("/:id", middleware.AuthorizePermission(constants.UpdateOrg), oh.UpdateOrg)

		// Model-year reports and reassessments
		rs := &reportsvc.Service{DB: db, Events: publisher}
		ras := &reassesssvc.Service{DB: db, Events: publisher}
		rh := &reporthandler.Handlers{Service: rs, Reassessments: ras}
		rg := app.Group("/api/v1/reports", middleware.RequireAuth())
		rg.Post("/", middleware.AuthorizePermission(constants.SubmitReport), rh.Submit)
		rg.Get("/", middleware.AuthorizePermission(constants.ViewData), rh.List)
		rg.Post("/:id/approve", middleware.AuthorizePermission(constants.ApproveReport), rh.Approve)
		rg.Post("/:id/reject", middleware.AuthorizePermission(constants.ApproveReport), rh.Reject)
		rg.Post("/:id/reassessments", middleware.AuthorizePermission(constants.CreateReassessment), rh.CreateReassessment)
		rg.Get("/:id/reassessments", middleware.AuthorizePermission(constants.ViewData), rh.ListReassessments)

		// Credit transfers
		ts := &transfersvc.Service{DB: db, Events: publisher}
		th := &transferhandler.Handlers{Service: ts}
		tg := app.Group("/api/v1/transfers", middleware.RequireAuth())
		tg.Post("/", middleware.AuthorizePermission(constants.TransferCredits), th.Execute)
		tg.Get("/", middleware.AuthorizePermission(constants.ViewData), th.List)

		// Balances
		bs := &balancesvc.Service{DB: db}
		bh := &balancehandler.Handlers{Service: bs}
		bg := app.Group("/api/v1/balances", middleware.RequireAuth())
		bg.Get("/", middleware.AuthorizePermission(constants.ViewData), bh.List)
		bg.Get("/summary", middleware.AuthorizePermission(constants.ViewData), bh.Summary)
	}

	return app, db, rdb, nil
}
