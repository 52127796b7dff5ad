package Controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Traxovo/Models"
)

// DriverController manages the roster that export names are matched
// against.
type DriverController struct {
	DB *gorm.DB
}

func NewDriverController(db *gorm.DB) *DriverController {
	return &DriverController{DB: db}
}

// GetDrivers lists the roster.
func (d *DriverController) GetDrivers(ctx *fiber.Ctx) error {
	var drivers []Models.Driver
	if err := d.DB.Order("name").Find(&drivers).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve drivers"})
	}
	return ctx.JSON(drivers)
}

// CreateDriver adds a roster entry.
func (d *DriverController) CreateDriver(ctx *fiber.Ctx) error {
	var input Models.Driver
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Name == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Driver name is required"})
	}

	driver := Models.Driver{
		Name:       input.Name,
		EmployeeID: input.EmployeeID,
		HomeZone:   input.HomeZone,
		Active:     true,
	}
	if err := d.DB.Create(&driver).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create driver"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(driver)
}

// UpdateDriver edits a roster entry.
func (d *DriverController) UpdateDriver(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid driver ID"})
	}

	var driver Models.Driver
	if err := d.DB.First(&driver, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Driver not found"})
	}

	var input Models.Driver
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	driver.Name = input.Name
	driver.EmployeeID = input.EmployeeID
	driver.HomeZone = input.HomeZone
	driver.Active = input.Active

	if err := d.DB.Save(&driver).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update driver"})
	}
	return ctx.JSON(driver)
}

// DeleteDriver removes a roster entry.
func (d *DriverController) DeleteDriver(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid driver ID"})
	}
	if err := d.DB.Delete(&Models.Driver{}, id).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete driver"})
	}
	return ctx.JSON(fiber.Map{"message": "Driver deleted"})
}
