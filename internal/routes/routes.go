package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus"
)

type Handlers struct {
	Health  *handlers.HealthHandler
	Apps    *handlers.AppHandler
	Reports *handlers.ReportHandler
	Users   *handlers.UserHandler
	Coupons *handlers.CouponHandler
	Reviews *handlers.ReviewHandler
	Upload  *handlers.UploadHandler
}

type Deps struct {
	Config       *config.Config
	Verifier     *services.IdentityVerifier
	Roles        middleware.RoleLookup
	WriteLimiter *middleware.WriteLimiter
	Gatherer     prometheus.Gatherer
	Handlers     Handlers
}

func Setup(app *fiber.App, d Deps) {
	h := d.Handlers

	app.Get("/", h.Health.Root)
	app.Get("/health", h.Health.Check)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(d.Gatherer)))

	// General rate limiter per IP
	app.Use(limiter.New(limiter.Config{
		Max:               d.Config.RateLimitPerMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	auth := middleware.Authenticate(d.Verifier)
	writes := d.WriteLimiter.Handler()
	moderator := middleware.RequireRole(d.Roles, models.RoleModerator)
	staff := middleware.RequireRole(d.Roles, models.RoleModerator, models.RoleAdmin)
	admin := middleware.RequireRole(d.Roles, models.RoleAdmin)

	// Applications
	app.Post("/add-apps", auth, h.Apps.Create)
	app.Get("/apps", h.Apps.List)
	app.Get("/apps/paginated", h.Apps.Paginated)
	app.Get("/apps/user", auth, h.Apps.ListMine)
	app.Get("/appsDetails/:id", h.Apps.Get)
	app.Patch("/apps/feature/:id", auth, moderator, h.Apps.Feature)
	app.Patch("/apps/status/:id", auth, moderator, h.Apps.SetStatus)
	app.Patch("/apps/upvote/:id", auth, writes, h.Apps.Upvote)
	app.Patch("/apps/undo-upvote/:id", auth, writes, h.Apps.UndoUpvote)
	app.Patch("/apps/:id", auth, h.Apps.Update)
	app.Delete("/apps/:id", auth, h.Apps.Delete)

	// Reviews
	app.Post("/reviews", auth, h.Reviews.Create)
	app.Get("/reviews", h.Reviews.List)

	// Reports
	app.Post("/reports", auth, writes, h.Reports.Create)
	app.Get("/reports", auth, staff, h.Reports.List)
	app.Get("/reports/app/:appId", auth, staff, h.Reports.ForApp)
	app.Delete("/reports/:id", auth, staff, h.Reports.Delete)

	// Users
	app.Post("/user", h.Users.Upsert)
	app.Get("/user/role/:email", auth, h.Users.Role)
	app.Get("/users", auth, admin, h.Users.List)
	app.Patch("/users/role/:id", auth, admin, h.Users.UpdateRole)
	app.Patch("/users/:email", auth, h.Users.UpdateProfile)

	// Coupons
	coupons := app.Group("/admin/coupons", auth, admin)
	coupons.Get("/", h.Coupons.List)
	coupons.Post("/", h.Coupons.Create)
	coupons.Get("/:id", h.Coupons.Get)
	coupons.Patch("/:id", h.Coupons.Update)
	coupons.Delete("/:id", h.Coupons.Delete)
	app.Get("/coupons", h.Coupons.ListValid)
	app.Get("/coupons/validate/:code", h.Coupons.Validate)

	// Media
	app.Post("/upload", h.Upload.Upload)
}
