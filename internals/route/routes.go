// file: internals/route/routes.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assetcontroller "classtrack_backend/internals/features/assets/controller"
	classcontroller "classtrack_backend/internals/features/classes/controller"
	invoicecontroller "classtrack_backend/internals/features/invoices/controller"
	participantcontroller "classtrack_backend/internals/features/participants/controller"
	sessioncontroller "classtrack_backend/internals/features/sessions/controller"
	usercontroller "classtrack_backend/internals/features/users/controller"
	"classtrack_backend/internals/middlewares/auth"
)

// Deps is everything the route table needs, wired once in main.
type Deps struct {
	DB     *gorm.DB
	Secret string

	Users        *usercontroller.UserController
	Classes      *classcontroller.ClassController
	Participants *participantcontroller.ParticipantController
	Sessions     *sessioncontroller.SessionController
	Invoices     *invoicecontroller.InvoiceController
	Assets       *assetcontroller.AssetController
}

var startTime = time.Now()

func SetupRoutes(app *fiber.App, d Deps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("classtrack backend up")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		sqlDB, err := d.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			dbStatus = "database connection error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
		})
	})

	log.Println("[INFO] Setting up API group...")
	api := app.Group("/api", auth.AuthMiddleware(d.Secret, d.Users.Store.Users()))

	users := api.Group("/users")
	users.Get("/", d.Users.GetAll)
	users.Get("/:id", d.Users.GetByID)
	users.Post("/", d.Users.Create)
	users.Put("/:id", d.Users.Update)
	users.Delete("/:id", d.Users.Delete)

	classes := api.Group("/classes")
	classes.Get("/", d.Classes.GetAll)
	classes.Get("/:id", d.Classes.GetByID)
	classes.Post("/", d.Classes.Create)
	classes.Put("/:id", d.Classes.Update)
	classes.Delete("/:id", d.Classes.Delete)

	participants := api.Group("/participants")
	participants.Get("/:id", d.Participants.GetByID)
	participants.Post("/", d.Participants.Create)
	participants.Put("/:id", d.Participants.Update)
	participants.Delete("/:id", d.Participants.Delete)

	sessions := api.Group("/sessions")
	sessions.Get("/:id", d.Sessions.GetByID)
	sessions.Post("/", d.Sessions.Create)
	sessions.Delete("/:id", d.Sessions.Delete)

	invoices := api.Group("/invoices")
	invoices.Get("/", d.Invoices.GetAll)
	invoices.Get("/:id", d.Invoices.GetByID)
	invoices.Post("/generate/:classId", d.Invoices.Generate)
	invoices.Post("/reconcile", d.Invoices.Reconcile)
	invoices.Post("/reconcile/:classId", d.Invoices.Reconcile)
	invoices.Patch("/:id/approve", d.Invoices.ToggleApproved)
	invoices.Patch("/:id/paid", d.Invoices.MarkPaid)
	invoices.Delete("/:id", d.Invoices.Delete)

	assets := api.Group("/assets")
	assets.Post("/presign", d.Assets.Presign)
	assets.Post("/upload", d.Assets.Upload)
	assets.Delete("/", d.Assets.Delete)
}
