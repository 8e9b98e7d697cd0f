package handler

import (
	"github.com/gofiber/fiber/v2"

	"furnicost/internal/service"
)

// DetectArea returns the surface area found in an uploaded drawing.
// Unreadable drawings answer 200 with area_m2 0 and a diagnostic.
//
// @Summary  Detect drawing area
// @Tags     drawings
// @Accept   multipart/form-data
// @Produce  json
// @Param    file formData file true "PDF or DXF drawing"
// @Success  200 {object} extraction.Result
// @Failure  400 {object} errorPayload
// @Failure  413 {object} errorPayload
// @Failure  415 {object} errorPayload
// @Router   /drawings/area [post]
func DetectArea(svc service.EstimateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		res, err := svc.DetectArea(c.UserContext(), f, fh.Filename)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// Materials lists the costing and reference price tables.
//
// @Summary  Price tables
// @Tags     estimates
// @Produce  json
// @Success  200 {object} service.MaterialsResult
// @Router   /materials [get]
func Materials(svc service.EstimateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Materials())
	}
}
