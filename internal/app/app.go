package app

import (
	"lenderlink-backend/internal/config"
	"lenderlink-backend/internal/database"
	"lenderlink-backend/internal/health"
	"lenderlink-backend/internal/lenders"
	"lenderlink-backend/internal/matching"
	"lenderlink-backend/internal/middleware"
	"lenderlink-backend/internal/programs"
	"lenderlink-backend/internal/refdata"
	"lenderlink-backend/internal/scenarios"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. DB and Redis handles are returned for startup checks.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
	}

	healthHandlers := &health.Handlers{Rdb: rdb}
	if db != nil {
		healthHandlers.DB = &gormPinger{db: db}
	}
	app.Get("/health/json", healthHandlers.JSON)

	if db != nil {
		// Reference data reads go through Redis when configured; operator
		// edits bump the cache version.
		var store refdata.Store = &refdata.GormStore{DB: db}
		var cache *refdata.CachedStore
		if rdb != nil {
			cache = &refdata.CachedStore{Inner: store, Rdb: rdb, TTL: cfg.RefdataCacheTTL}
			store = cache
		}

		scenarioService := &scenarios.Service{DB: db}
		scenarioHandlers := &scenarios.Handlers{Service: scenarioService}
		scenarioGroup := app.Group("/api/v1/scenarios")
		scenarioGroup.Post("/", scenarioHandlers.CreateScenario)
		scenarioGroup.Get("/:id", scenarioHandlers.GetScenario)

		matchingService := &matching.Service{Store: store}
		matchingHandlers := &matching.Handlers{Service: matchingService, Scenarios: scenarioService}
		scenarioGroup.Post("/:id/match", matchingHandlers.Match)

		lenderService := &lenders.Service{DB: db}
		programService := &programs.Service{DB: db}
		if cache != nil {
			lenderService.Cache = cache
			programService.Cache = cache
		}

		lenderHandlers := &lenders.Handlers{Service: lenderService}
		lenderGroup := app.Group("/api/v1/lenders")
		lenderGroup.Post("/create-lender", lenderHandlers.CreateLender)
		lenderGroup.Get("/get-all-lenders", lenderHandlers.ListLenders)
		lenderGroup.Get("/get-lender/:id", lenderHandlers.GetLender)
		lenderGroup.Post("/deactivate-lender/:id", lenderHandlers.DeactivateLender)
		lenderGroup.Put("/set-states/:id", lenderHandlers.SetStateCoverage)

		programHandlers := &programs.Handlers{Service: programService}
		programGroup := app.Group("/api/v1/programs")
		programGroup.Post("/create-program", programHandlers.CreateProgram)
		programGroup.Post("/revise-program/:id", programHandlers.ReviseProgram)
		programGroup.Post("/add-criterion", programHandlers.AddCriterion)
		programGroup.Post("/add-pricing-row", programHandlers.AddPricingRow)
		programGroup.Put("/set-metros", programHandlers.SetMetroOverrides)
		programGroup.Post("/deactivate-program/:id", programHandlers.DeactivateProgram)
	}

	return app, db, rdb, nil
}

type gormPinger struct {
	db *gorm.DB
}

func (p *gormPinger) Ping() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
