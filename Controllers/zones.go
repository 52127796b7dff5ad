package Controllers

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"Traxovo/Logger"
	"Traxovo/Parser"
	"Traxovo/Reconciler"
	"Traxovo/Zones"
)

// ZoneController manages the zone rules document and serves ad-hoc
// check-in validation.
type ZoneController struct {
	ConfigPath string
}

func NewZoneController(configPath string) *ZoneController {
	if configPath == "" {
		configPath = Zones.DefaultConfigPath
	}
	return &ZoneController{ConfigPath: configPath}
}

// GetZones returns the current rules document.
func (z *ZoneController) GetZones(ctx *fiber.Ctx) error {
	cfg, err := Zones.LoadConfig(z.ConfigPath)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No zone rules configured; import a PM sheet or initialize defaults",
		})
	}
	return ctx.JSON(cfg)
}

// UpdateZones replaces the rules document with the posted one after
// validation.
func (z *ZoneController) UpdateZones(ctx *fiber.Ctx) error {
	var cfg Zones.Config
	if err := ctx.BodyParser(&cfg); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse zone config"})
	}
	if err := Zones.SaveConfig(&cfg, z.ConfigPath); err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Zone rules updated", "zones": len(cfg.Zones)})
}

// InitDefaults writes the stock ruleset. This is the only way defaults ever
// reach disk; nothing falls back to them silently.
func (z *ZoneController) InitDefaults(ctx *fiber.Ctx) error {
	if _, err := os.Stat(z.ConfigPath); err == nil && ctx.Query("force") != "true" {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Zone rules already exist; pass force=true to overwrite",
		})
	}
	cfg := Zones.DefaultConfig()
	if err := Zones.SaveConfig(cfg, z.ConfigPath); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	Logger.Log.Infow("default zone rules initialized by request")
	return ctx.Status(fiber.StatusCreated).JSON(cfg)
}

// ImportPMSheet processes an uploaded PM schedule sheet into the rules
// document.
func (z *ZoneController) ImportPMSheet(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("sheet")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No sheet provided"})
	}

	tmp := filepath.Join(os.TempDir(), file.Filename)
	if err := ctx.SaveFile(file, tmp); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to stage upload"})
	}
	defer os.Remove(tmp)

	table, _, err := Parser.ReadTable(tmp)
	if err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	cfg, err := Zones.ProcessPMSheet(table, file.Filename)
	if err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	if err := Zones.SaveConfig(cfg, z.ConfigPath); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Zone rules imported", "zones": len(cfg.Zones), "source": file.Filename})
}

// ValidateCheckIn answers whether a single check-in time is valid for a
// zone. Coordinates are accepted for interface parity but not evaluated.
func (z *ZoneController) ValidateCheckIn(ctx *fiber.Ctx) error {
	zoneID := ctx.Query("zone")
	at := ctx.Query("time")
	if zoneID == "" || at == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "zone and time are required"})
	}

	checkTime := Reconciler.ParseDateTime(at)
	if checkTime == nil {
		if t, err := time.Parse(time.RFC3339, at); err == nil {
			checkTime = &t
		}
	}
	if checkTime == nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unparseable time"})
	}

	cfg, err := Zones.LoadConfig(z.ConfigPath)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No zone rules configured"})
	}

	var gps *Zones.Coordinates
	if lat, err := strconv.ParseFloat(ctx.Query("lat"), 64); err == nil {
		lng, _ := strconv.ParseFloat(ctx.Query("lng"), 64)
		gps = &Zones.Coordinates{Latitude: lat, Longitude: lng}
	}

	result, err := cfg.ValidateAttendance(zoneID, *checkTime, gps)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(result)
}
