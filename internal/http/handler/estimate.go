package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"furnicost/internal/costing"
	"furnicost/internal/service"
)

const (
	defaultURLExpiry = 15 * time.Minute
	maxURLExpiry     = 7 * 24 * time.Hour
)

// formFloat parses an optional numeric form field; empty means zero.
func formFloat(c *fiber.Ctx, key string) (float64, error) {
	v := strings.TrimSpace(c.FormValue(key))
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return f, nil
}

func formSurface(c *fiber.Ctx, prefix string) (costing.Surface, error) {
	s := costing.Surface{Material: strings.TrimSpace(c.FormValue(prefix + "_material"))}
	var err error
	if s.AreaM2, err = formFloat(c, prefix+"_area_m2"); err != nil {
		return s, err
	}
	if s.LengthCM, err = formFloat(c, prefix+"_length_cm"); err != nil {
		return s, err
	}
	if s.HeightCM, err = formFloat(c, prefix+"_height_cm"); err != nil {
		return s, err
	}
	return s, nil
}

func parseEstimateForm(c *fiber.Ctx) (service.CreateEstimateInput, error) {
	var in service.CreateEstimateInput
	var err error
	if in.Exterior, err = formSurface(c, "exterior"); err != nil {
		return in, err
	}
	if in.Interior, err = formSurface(c, "interior"); err != nil {
		return in, err
	}
	if v := strings.TrimSpace(c.FormValue("drawer_count")); v != "" {
		if in.DrawerCount, err = strconv.Atoi(v); err != nil {
			return in, fmt.Errorf("drawer_count must be an integer")
		}
	}
	if in.ManualCost, err = formFloat(c, "manual_cost"); err != nil {
		return in, err
	}
	if in.CommissionPercent, err = formFloat(c, "commission_percent"); err != nil {
		return in, err
	}
	return in, nil
}

// CreateEstimate prices a construction, optionally seeded by an uploaded drawing.
//
// @Summary  Create estimate
// @Tags     estimates
// @Accept   multipart/form-data
// @Produce  json
// @Param    file               formData file   false "PDF or DXF drawing"
// @Param    exterior_area_m2   formData number false "Exterior area in m²; detected from the drawing when omitted"
// @Param    exterior_length_cm formData number false "Exterior length in cm"
// @Param    exterior_height_cm formData number false "Exterior height in cm"
// @Param    exterior_material  formData string true  "Exterior material"
// @Param    interior_area_m2   formData number false "Interior area in m²"
// @Param    interior_length_cm formData number false "Interior length in cm"
// @Param    interior_height_cm formData number false "Interior height in cm"
// @Param    interior_material  formData string true  "Interior material"
// @Param    drawer_count       formData int    false "Number of drawers"
// @Param    manual_cost        formData number false "Manual construction cost"
// @Param    commission_percent formData number false "Architect commission percent"
// @Success  201 {object} model.Estimate
// @Failure  400 {object} errorPayload
// @Failure  415 {object} errorPayload
// @Router   /estimates [post]
func CreateEstimate(svc service.EstimateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in, err := parseEstimateForm(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_INPUT", err.Error())
		}

		if fh, ferr := c.FormFile("file"); ferr == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()
			in.Drawing = &service.DrawingUpload{Filename: fh.Filename, Reader: f}
		}

		est, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(est)
	}
}

// ListEstimates returns estimates newest first.
//
// @Summary  List estimates
// @Tags     estimates
// @Produce  json
// @Param    limit  query int false "Page size" default(10)
// @Param    offset query int false "Offset"    default(0)
// @Success  200 {object} service.EstimateListResult
// @Failure  400 {object} errorPayload
// @Router   /estimates [get]
func ListEstimates(svc service.EstimateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// estimateID validates the :id path parameter.
func estimateID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// GetEstimate returns one estimate.
//
// @Summary  Get estimate
// @Tags     estimates
// @Produce  json
// @Param    id path string true "Estimate ID"
// @Success  200 {object} model.Estimate
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /estimates/{id} [get]
func GetEstimate(svc service.EstimateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := estimateID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		est, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(est)
	}
}

// DeleteEstimate removes an estimate and its stored drawing.
//
// @Summary  Delete estimate
// @Tags     estimates
// @Param    id path string true "Estimate ID"
// @Success  204 "No Content"
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /estimates/{id} [delete]
func DeleteEstimate(svc service.EstimateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := estimateID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DownloadDrawing streams the drawing an estimate was made from.
//
// @Summary  Download drawing
// @Tags     estimates
// @Produce  application/octet-stream
// @Param    id path string true "Estimate ID"
// @Success  200 {file} binary
// @Failure  404 {object} errorPayload
// @Router   /estimates/{id}/drawing [get]
func DownloadDrawing(svc service.EstimateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := estimateID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, info, err := svc.OpenDrawing(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}

		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		if name := info.Metadata["Original-Filename"]; name != "" {
			c.Attachment(name)
		}
		// Fiber closes the reader once the body is written
		return c.SendStream(rc, int(info.Size))
	}
}

// DrawingURL returns a time-limited download link for an estimate's drawing.
//
// @Summary  Drawing download link
// @Tags     estimates
// @Produce  json
// @Param    id     path  string true  "Estimate ID"
// @Param    expiry query string false "Link lifetime, e.g. 15m" default(15m)
// @Success  200 {object} map[string]string
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /estimates/{id}/drawing-url [get]
func DrawingURL(svc service.EstimateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := estimateID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		expiry := defaultURLExpiry
		if v := c.Query("expiry"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil || d < time.Second || d > maxURLExpiry {
				return writeError(c, fiber.StatusBadRequest, "INVALID_INPUT", "expiry must be a duration between 1s and 168h")
			}
			expiry = d
		}

		u, err := svc.DrawingURL(c.UserContext(), id, expiry)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": u, "expires_in": int(expiry.Seconds())})
	}
}
