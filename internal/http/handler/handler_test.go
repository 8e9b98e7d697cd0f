package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"furnicost/internal/costing"
	"furnicost/internal/extraction"
	"furnicost/internal/model"
	"furnicost/internal/service"
	serviceMocks "furnicost/internal/service/mocks"
	"furnicost/internal/storage"
)

// multipartBody builds a form with optional file and plain fields.
func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var res errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDetectArea(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		setupMocks func(m *serviceMocks.MockEstimateService)
		wantStatus int
		wantCode   string
		wantArea   float64
		wantDiag   string
	}{
		{
			name:     "pdf",
			filename: "plan.pdf",
			setupMocks: func(m *serviceMocks.MockEstimateService) {
				m.On("DetectArea", mock.Anything, mock.Anything, "plan.pdf").
					Return(&extraction.Result{AreaM2: 3.75, Format: extraction.FormatPDF, Supported: true}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantArea:   3.75,
		},
		{
			name:     "unreadable drawing",
			filename: "plan.dxf",
			setupMocks: func(m *serviceMocks.MockEstimateService) {
				m.On("DetectArea", mock.Anything, mock.Anything, "plan.dxf").
					Return(&extraction.Result{Format: extraction.FormatDXF, Supported: true, Diagnostic: "unreadable dxf document: missing EOF"}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantDiag:   "unreadable dxf document: missing EOF",
		},
		{
			name:     "unsupported",
			filename: "photo.png",
			setupMocks: func(m *serviceMocks.MockEstimateService) {
				m.On("DetectArea", mock.Anything, mock.Anything, "photo.png").
					Return(nil, fmt.Errorf("%w: photo.png", service.ErrUnsupportedDrawing)).Once()
			},
			wantStatus: http.StatusUnsupportedMediaType,
			wantCode:   "UNSUPPORTED_DRAWING",
		},
		{
			name:     "too large",
			filename: "huge.dxf",
			setupMocks: func(m *serviceMocks.MockEstimateService) {
				m.On("DetectArea", mock.Anything, mock.Anything, "huge.dxf").
					Return(nil, service.ErrFileTooLarge).Once()
			},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   "FILE_TOO_LARGE",
		},
		{
			name:       "no file",
			wantStatus: http.StatusBadRequest,
			wantCode:   "FILE_REQUIRED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockEstimateService)
			if tt.setupMocks != nil {
				tt.setupMocks(mockSvc)
			}
			app := fiber.New()
			app.Post("/drawings/area", DetectArea(mockSvc))

			body, ct := multipartBody(t, tt.filename, []byte("data"), nil)
			req := httptest.NewRequest(http.MethodPost, "/drawings/area", body)
			req.Header.Set("Content-Type", ct)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, resp).Error.Code)
			} else {
				var res extraction.Result
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
				assert.Equal(t, tt.wantArea, res.AreaM2)
				assert.Equal(t, tt.wantDiag, res.Diagnostic)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestMaterials(t *testing.T) {
	mockSvc := new(serviceMocks.MockEstimateService)
	s := costing.DefaultSettings()
	mockSvc.On("Materials").Return(service.MaterialsResult{
		Names:     s.Materials(),
		Materials: s.MaterialPrices, Reference: s.ReferencePrices, DrawerPrice: s.DrawerPrice,
	})

	app := fiber.New()
	app.Get("/materials", Materials(mockSvc))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/materials", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var res service.MaterialsResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, 130.0, res.Materials["Καπλαμάς"])
	assert.Equal(t, 250.0, res.DrawerPrice)
	assert.Equal(t, []string{"Καπλαμάς", "Λάκα", "Μελαμίνη"}, res.Names)
}

func TestCreateEstimate(t *testing.T) {
	t.Run("form fields and drawing", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockEstimateService)
		app := fiber.New()
		app.Post("/estimates", CreateEstimate(mockSvc))

		id := uuid.New().String()
		mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateEstimateInput) bool {
			return in.Drawing != nil && in.Drawing.Filename == "wardrobe.dxf" &&
				in.Exterior.Material == "Λάκα" && in.Exterior.IsZero() &&
				in.Interior.LengthCM == 120 && in.Interior.HeightCM == 60 &&
				in.DrawerCount == 3 && in.CommissionPercent == 10
		})).Return(&model.Estimate{ID: id, FinalCost: 1234.5}, nil).Once()

		body, ct := multipartBody(t, "wardrobe.dxf", []byte("0\nEOF\n"), map[string]string{
			"exterior_material":  "Λάκα",
			"interior_material":  "Μελαμίνη",
			"interior_length_cm": "120",
			"interior_height_cm": "60",
			"drawer_count":       "3",
			"commission_percent": "10",
		})
		req := httptest.NewRequest(http.MethodPost, "/estimates", body)
		req.Header.Set("Content-Type", ct)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var est model.Estimate
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&est))
		assert.Equal(t, id, est.ID)
		assert.Equal(t, 1234.5, est.FinalCost)
		mockSvc.AssertExpectations(t)
	})

	t.Run("without drawing", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockEstimateService)
		app := fiber.New()
		app.Post("/estimates", CreateEstimate(mockSvc))

		mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateEstimateInput) bool {
			return in.Drawing == nil && in.Exterior.AreaM2 == 2.5
		})).Return(&model.Estimate{ID: uuid.New().String()}, nil).Once()

		body, ct := multipartBody(t, "", nil, map[string]string{
			"exterior_area_m2":  "2.5",
			"exterior_material": "Λάκα",
			"interior_material": "Λάκα",
		})
		req := httptest.NewRequest(http.MethodPost, "/estimates", body)
		req.Header.Set("Content-Type", ct)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	errorCases := []struct {
		name       string
		fields     map[string]string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "non numeric field", fields: map[string]string{"exterior_length_cm": "wide"}, wantStatus: http.StatusBadRequest, wantCode: "INVALID_INPUT"},
		{name: "non integer drawers", fields: map[string]string{"drawer_count": "2.5"}, wantStatus: http.StatusBadRequest, wantCode: "INVALID_INPUT"},
		{name: "unknown material", fields: map[string]string{"exterior_material": "Μάρμαρο"}, svcErr: fmt.Errorf("exterior: %w", costing.ErrUnknownMaterial), wantStatus: http.StatusBadRequest, wantCode: "UNKNOWN_MATERIAL"},
		{name: "invalid input", fields: map[string]string{"commission_percent": "150"}, svcErr: costing.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantCode: "INVALID_INPUT"},
		{name: "service failure", fields: map[string]string{}, svcErr: errors.New("db save failed"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockEstimateService)
			if tt.svcErr != nil {
				mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, tt.svcErr).Once()
			}
			app := fiber.New()
			app.Post("/estimates", CreateEstimate(mockSvc))

			body, ct := multipartBody(t, "", nil, tt.fields)
			req := httptest.NewRequest(http.MethodPost, "/estimates", body)
			req.Header.Set("Content-Type", ct)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, decodeError(t, resp).Error.Code)
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestListEstimates(t *testing.T) {
	mockSvc := new(serviceMocks.MockEstimateService)
	app := fiber.New()
	app.Get("/estimates", ListEstimates(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &service.EstimateListResult{
			Items: []model.Estimate{{ID: uuid.New().String(), FinalCost: 500}},
			Total: 1,
		}
		mockSvc.On("List", mock.Anything, 10, 0).Return(expected, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/estimates?limit=10&offset=0", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.EstimateListResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/estimates?limit=abc", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid offset", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/estimates?offset=x", nil))
		require.NoError(t, err)
		assert.Equal(t, "INVALID_OFFSET", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, 10, 0).Return(nil, errors.New("service error")).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/estimates", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetEstimate(t *testing.T) {
	mockSvc := new(serviceMocks.MockEstimateService)
	app := fiber.New()
	app.Get("/estimates/:id", GetEstimate(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(&model.Estimate{ID: id}, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/estimates/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Estimate
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, id, result.ID)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(nil, service.ErrNotFound).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/estimates/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/estimates/invalid-uuid", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestDeleteEstimate(t *testing.T) {
	mockSvc := new(serviceMocks.MockEstimateService)
	app := fiber.New()
	app.Delete("/estimates/:id", DeleteEstimate(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/estimates/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(service.ErrNotFound).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/estimates/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("service error", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(errors.New("delete storage: s3 down")).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/estimates/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestDownloadDrawing(t *testing.T) {
	mockSvc := new(serviceMocks.MockEstimateService)
	app := fiber.New()
	app.Get("/estimates/:id/drawing", DownloadDrawing(mockSvc))

	t.Run("streams object", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("OpenDrawing", mock.Anything, id).Return(
			io.NopCloser(bytes.NewReader([]byte("%PDF-1.4"))),
			storage.ObjectInfo{Size: 8, ContentType: "application/pdf", Metadata: map[string]string{"Original-Filename": "plan.pdf"}},
			nil,
		).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/estimates/"+id+"/drawing", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "plan.pdf")

		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4", string(data))
	})

	t.Run("no drawing", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("OpenDrawing", mock.Anything, id).Return(nil, storage.ObjectInfo{}, service.ErrNoDrawing).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/estimates/"+id+"/drawing", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestDrawingURL(t *testing.T) {
	mockSvc := new(serviceMocks.MockEstimateService)
	app := fiber.New()
	app.Get("/estimates/:id/drawing-url", DrawingURL(mockSvc))
	id := uuid.New().String()

	t.Run("default expiry", func(t *testing.T) {
		mockSvc.On("DrawingURL", mock.Anything, id, 15*time.Minute).Return("https://minio.local/d?sig", nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/estimates/"+id+"/drawing-url", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "https://minio.local/d?sig", body["url"])
		assert.Equal(t, float64(900), body["expires_in"])
	})

	t.Run("custom expiry", func(t *testing.T) {
		mockSvc.On("DrawingURL", mock.Anything, id, time.Hour).Return("https://minio.local/d?sig2", nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/estimates/"+id+"/drawing-url?expiry=1h", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("bad expiry", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/estimates/"+id+"/drawing-url?expiry=30d", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_INPUT", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	mockSvc := new(serviceMocks.MockEstimateService)
	RegisterRoutes(app, nil, mockSvc)

	t.Run("not found route", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("health without database", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}
