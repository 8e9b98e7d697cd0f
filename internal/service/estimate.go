package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"furnicost/internal/costing"
	"furnicost/internal/extraction"
	"furnicost/internal/model"
	"furnicost/internal/repository"
	"furnicost/internal/storage"
)

// DefaultMaxUploadBytes caps drawing uploads when no limit is configured.
const DefaultMaxUploadBytes = 20 << 20

var tracer = otel.Tracer("furnicost/internal/service")

var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("estimate not found")
	ErrReaderNil          = errors.New("reader is nil")
	ErrUnsupportedDrawing = errors.New("unsupported drawing format")
	ErrFileTooLarge       = errors.New("drawing exceeds upload limit")
	ErrNoDrawing          = errors.New("estimate has no drawing")
)

// AreaExtractor detects the surface area drawn in a PDF or DXF file.
type AreaExtractor interface {
	Extract(data []byte, ext string) extraction.Result
}

// DrawingUpload is a drawing sent along with an estimate request.
type DrawingUpload struct {
	Filename string
	Reader   io.Reader
}

// CreateEstimateInput carries the user's construction figures. When a drawing
// is attached and the exterior surface is left empty, the detected area fills it.
type CreateEstimateInput struct {
	Drawing           *DrawingUpload
	Exterior          costing.Surface
	Interior          costing.Surface
	DrawerCount       int
	ManualCost        float64
	CommissionPercent float64
}

// EstimateListResult is the service-level DTO for paginated estimates.
type EstimateListResult struct {
	Items []model.Estimate `json:"data"`
	Total int              `json:"total"`
}

// MaterialsResult lists the active price tables. Names holds the costing
// materials in display order.
type MaterialsResult struct {
	Names       []string           `json:"names"`
	Materials   map[string]float64 `json:"materials"`
	Reference   map[string]float64 `json:"reference"`
	DrawerPrice float64            `json:"drawer_price"`
}

// EstimateService defines the use cases for drawings and cost estimates.
type EstimateService interface {
	// DetectArea reads a drawing and returns the area found in it. Unreadable
	// drawings are not an error; the result carries a diagnostic instead.
	DetectArea(ctx context.Context, r io.Reader, filename string) (*extraction.Result, error)

	// Create prices a construction, stores its drawing and saves the estimate.
	// The stored drawing is removed again if the estimate cannot be saved.
	Create(ctx context.Context, in CreateEstimateInput) (*model.Estimate, error)

	List(ctx context.Context, limit, offset int) (*EstimateListResult, error)
	Get(ctx context.Context, id string) (*model.Estimate, error)

	// Delete removes the stored drawing first, then the estimate row.
	Delete(ctx context.Context, id string) error

	// OpenDrawing streams the drawing an estimate was made from.
	OpenDrawing(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error)

	// DrawingURL returns a pre-signed download link for the estimate's drawing.
	DrawingURL(ctx context.Context, id string, expiry time.Duration) (string, error)

	Materials() MaterialsResult
}

// Options tunes an EstimateService.
type Options struct {
	MaxUploadBytes int64
	Logger         *zap.Logger
	Now            func() time.Time
}

type estimateService struct {
	store     storage.Storage
	repo      repository.EstimateRepository
	extractor AreaExtractor
	settings  costing.Settings
	maxUpload int64
	log       *zap.Logger
	now       func() time.Time
}

// NewEstimateService constructs a new EstimateService.
func NewEstimateService(store storage.Storage, repo repository.EstimateRepository, extractor AreaExtractor, settings costing.Settings, opts Options) EstimateService {
	s := &estimateService{
		store:     store,
		repo:      repo,
		extractor: extractor,
		settings:  settings,
		maxUpload: opts.MaxUploadBytes,
		log:       opts.Logger,
		now:       opts.Now,
	}
	if s.maxUpload <= 0 {
		s.maxUpload = DefaultMaxUploadBytes
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.log = s.log.Named("estimates")
	return s
}

// readDrawing buffers a drawing, enforcing the upload limit and the accepted formats.
func (s *estimateService) readDrawing(r io.Reader, filename string) ([]byte, extraction.Format, error) {
	if r == nil {
		return nil, "", ErrReaderNil
	}
	format, ok := extraction.FormatFromFilename(filename)
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedDrawing, filename)
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxUpload+1))
	if err != nil {
		return nil, "", fmt.Errorf("read drawing: %w", err)
	}
	if int64(len(data)) > s.maxUpload {
		return nil, "", fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.maxUpload)
	}
	return data, format, nil
}

// extract runs the extractor inside a span carrying the drawing's format and outcome.
func (s *estimateService) extract(ctx context.Context, data []byte, format extraction.Format) extraction.Result {
	_, span := tracer.Start(ctx, "drawing.extract", trace.WithAttributes(
		attribute.String("drawing.format", string(format)),
		attribute.Int("drawing.bytes", len(data)),
	))
	defer span.End()

	res := s.extractor.Extract(data, string(format))
	span.SetAttributes(
		attribute.Float64("drawing.area_m2", res.AreaM2),
		attribute.String("drawing.outcome", res.Outcome()),
	)
	if res.Diagnostic != "" {
		span.SetStatus(codes.Error, res.Diagnostic)
	}
	return res
}

func (s *estimateService) DetectArea(ctx context.Context, r io.Reader, filename string) (*extraction.Result, error) {
	data, format, err := s.readDrawing(r, filename)
	if err != nil {
		return nil, err
	}
	res := s.extract(ctx, data, format)
	return &res, nil
}

func (s *estimateService) Create(ctx context.Context, in CreateEstimateInput) (*model.Estimate, error) {
	id := uuid.New().String()
	est := &model.Estimate{ID: id}

	var data []byte
	if in.Drawing != nil {
		var format extraction.Format
		var err error
		data, format, err = s.readDrawing(in.Drawing.Reader, in.Drawing.Filename)
		if err != nil {
			return nil, err
		}
		res := s.extract(ctx, data, format)
		est.Drawing = model.Drawing{
			StorageKey:     storage.DrawingKey(id, string(format)),
			Filename:       in.Drawing.Filename,
			Format:         string(format),
			DetectedAreaM2: res.AreaM2,
			Diagnostic:     res.Diagnostic,
		}
		if in.Exterior.IsZero() && res.AreaM2 > 0 {
			in.Exterior.AreaM2 = res.AreaM2
		}
	}

	b, err := costing.Estimate(s.settings, costing.Input{
		Exterior:          in.Exterior,
		Interior:          in.Interior,
		DrawerCount:       in.DrawerCount,
		ManualCost:        in.ManualCost,
		CommissionPercent: in.CommissionPercent,
	})
	if err != nil {
		return nil, err
	}
	applyBreakdown(est, b)
	est.CreatedAt = s.now().UTC()

	if est.HasDrawing() {
		_, err := s.store.Put(ctx, est.Drawing.StorageKey, bytes.NewReader(data), storage.PutObjectOptions{
			Size:        int64(len(data)),
			ContentType: storage.ContentTypeFor(est.Drawing.Format),
			Metadata: map[string]string{
				"original-filename": est.Drawing.Filename,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("upload to storage: %w", err)
		}
	}

	stored, err := s.repo.Create(ctx, est)
	if err != nil {
		if est.HasDrawing() {
			// Rollback: delete the drawing from storage
			if delErr := s.store.Delete(ctx, est.Drawing.StorageKey); delErr != nil {
				return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
			}
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.log.Info("estimate_created",
		zap.String("estimate_id", stored.ID),
		zap.String("drawing_format", stored.Drawing.Format),
		zap.Float64("detected_area_m2", stored.Drawing.DetectedAreaM2),
		zap.Float64("final_cost", stored.FinalCost),
	)
	return stored, nil
}

func applyBreakdown(e *model.Estimate, b costing.Breakdown) {
	e.ExteriorAreaM2 = b.ExteriorAreaM2
	e.ExteriorMaterial = b.ExteriorMaterial
	e.InteriorAreaM2 = b.InteriorAreaM2
	e.InteriorMaterial = b.InteriorMaterial
	e.DrawerCount = b.DrawerCount
	e.ExteriorCost = b.ExteriorCost
	e.InteriorCost = b.InteriorCost
	e.DrawersCost = b.DrawersCost
	e.TotalCost = b.TotalCost
	e.ManualCost = b.ManualCost
	e.CommissionPercent = b.CommissionPercent
	e.CommissionAmount = b.CommissionAmount
	e.FinalCost = b.FinalCost
}

// List returns paginated estimates without exposing repository types.
func (s *estimateService) List(ctx context.Context, limit, offset int) (*EstimateListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &EstimateListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *estimateService) Get(ctx context.Context, id string) (*model.Estimate, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *estimateService) Delete(ctx context.Context, id string) error {
	e, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	// Delete from storage first; if this fails, keep the row so the object is not orphaned
	if e.HasDrawing() {
		if err := s.store.Delete(ctx, e.Drawing.StorageKey); err != nil {
			return fmt.Errorf("delete storage: %w", err)
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.log.Info("estimate_deleted", zap.String("estimate_id", id))
	return nil
}

func (s *estimateService) drawingKey(ctx context.Context, id string) (string, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !e.HasDrawing() {
		return "", ErrNoDrawing
	}
	return e.Drawing.StorageKey, nil
}

func (s *estimateService) OpenDrawing(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error) {
	key, err := s.drawingKey(ctx, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	rc, info, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, storage.ObjectInfo{}, fmt.Errorf("get storage: %w", err)
	}
	return rc, info, nil
}

func (s *estimateService) DrawingURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	key, err := s.drawingKey(ctx, id)
	if err != nil {
		return "", err
	}
	u, err := s.store.PresignGet(ctx, key, expiry)
	if err != nil {
		return "", fmt.Errorf("presign drawing: %w", err)
	}
	return u, nil
}

func (s *estimateService) Materials() MaterialsResult {
	return MaterialsResult{
		Names:       s.settings.Materials(),
		Materials:   s.settings.MaterialPrices,
		Reference:   s.settings.ReferencePrices,
		DrawerPrice: s.settings.DrawerPrice,
	}
}
