package FiberConfig

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"

	"Traxovo/Apis"
	"Traxovo/Controllers"
	"Traxovo/Logger"
	"Traxovo/middleware"
)

// SetupRoutes wires the attendance suite API.
func SetupRoutes(app *fiber.App, db *gorm.DB, outputDir string) {
	attendance := Controllers.NewAttendanceController(db, outputDir)
	zones := Controllers.NewZoneController("")
	drivers := Controllers.NewDriverController(db)

	app.Use(cors.New(cors.Config{AllowCredentials: true}))
	app.Use(compress.New())
	app.Use(middleware.RequestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth
	api.Post("/login", Apis.Login)
	api.Post("/logout", Apis.Logout)
	api.Get("/user", middleware.Verify(1), Apis.CurrentUser)
	api.Post("/register", middleware.Verify(3), Apis.Register)

	// Attendance reconciliation
	att := api.Group("/attendance", middleware.Verify(1))
	att.Post("/reconcile", middleware.Verify(2), attendance.Reconcile)
	att.Get("/runs", attendance.ListRuns)
	att.Get("/runs/:run_id", attendance.GetRun)
	att.Get("/runs/:run_id/export", attendance.ExportRun)

	// Zone rules
	zn := api.Group("/zones", middleware.Verify(1))
	zn.Get("/", zones.GetZones)
	zn.Put("/", middleware.Verify(3), zones.UpdateZones)
	zn.Post("/defaults", middleware.Verify(3), zones.InitDefaults)
	zn.Post("/import", middleware.Verify(3), zones.ImportPMSheet)
	zn.Get("/validate", zones.ValidateCheckIn)

	// Roster
	dr := api.Group("/drivers", middleware.Verify(2))
	dr.Get("/", drivers.GetDrivers)
	dr.Post("/", drivers.CreateDriver)
	dr.Put("/:id", drivers.UpdateDriver)
	dr.Delete("/:id", middleware.Verify(3), drivers.DeleteDriver)
}

// Serve starts the API server on PORT (default 8080).
func Serve(db *gorm.DB, outputDir string) error {
	app := fiber.New(fiber.Config{
		BodyLimit: 64 * 1024 * 1024, // exports can be large
	})
	SetupRoutes(app, db, outputDir)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	Logger.Log.Infow("attendance suite listening", "port", port)
	return app.Listen(":" + port)
}
