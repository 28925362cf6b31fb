package Controllers

import (
	"encoding/json"
	"strconv"
	"strings"

	"Aegis/Models"
	"Aegis/Uploads"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PartController handles part-related API endpoints
type PartController struct {
	DB    *gorm.DB
	Store *Uploads.Store
}

// NewPartController creates a new PartController
func NewPartController(db *gorm.DB, store *Uploads.Store) *PartController {
	return &PartController{DB: db, Store: store}
}

// GetParts retrieves all parts
func (p *PartController) GetParts(ctx *fiber.Ctx) error {
	var parts []Models.Part
	if err := p.DB.Order("created_at DESC").Find(&parts).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve parts"})
	}
	return ctx.JSON(parts)
}

// GetPart retrieves a single part by ID
func (p *PartController) GetPart(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid part ID"})
	}

	var part Models.Part
	if err := p.DB.First(&part, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Part not found"})
	}
	return ctx.JSON(part)
}

// CreatePart registers a new part. Accepts multipart form data so part
// images can be attached on creation.
func (p *PartController) CreatePart(ctx *fiber.Ctx) error {
	req := Models.PartRequest{
		Name:        ctx.FormValue("name"),
		CompanyName: ctx.FormValue("company_name"),
		SapCode:     ctx.FormValue("sap_code"),
		Description: ctx.FormValue("description"),
		Location:    ctx.FormValue("location"),
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"message": err.Error(),
		})
	}

	images, err := p.Store.SaveAll(ctx, "images")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid image upload",
			"message": err.Error(),
		})
	}

	part := Models.Part{
		Name:        req.Name,
		CompanyName: req.CompanyName,
		SapCode:     req.SapCode,
		Description: req.Description,
		Location:    req.Location,
	}
	if len(images) > 0 {
		jsonImages, err := json.Marshal(images)
		if err != nil {
			p.Store.Remove(images)
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to encode images"})
		}
		part.Images = datatypes.JSON(jsonImages)
	}

	if err := p.DB.Create(&part).Error; err != nil {
		p.Store.Remove(images)
		if strings.Contains(err.Error(), "UNIQUE constraint") ||
			strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "Duplicate entry") {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A part with this SAP code already exists",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create part"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(part)
}

// UpdatePart updates an existing part's display fields. The SAP code
// is the business key and stays immutable.
func (p *PartController) UpdatePart(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid part ID"})
	}

	var part Models.Part
	if err := p.DB.First(&part, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Part not found"})
	}

	var input struct {
		Name        string `json:"name"`
		CompanyName string `json:"company_name"`
		Description string `json:"description"`
		Location    string `json:"location"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := p.DB.Model(&part).Updates(Models.Part{
		Name:        input.Name,
		CompanyName: input.CompanyName,
		Description: input.Description,
		Location:    input.Location,
	}).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update part"})
	}

	return ctx.JSON(part)
}

// DeletePart soft deletes a part
func (p *PartController) DeletePart(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid part ID"})
	}

	var part Models.Part
	if err := p.DB.First(&part, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Part not found"})
	}

	if err := p.DB.Delete(&part).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete part"})
	}
	return ctx.JSON(fiber.Map{"message": "Part deleted successfully"})
}
