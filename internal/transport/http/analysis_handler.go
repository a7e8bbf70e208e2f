package http

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"wbreport/internal/analysis"
	"wbreport/internal/dataprocessing"
	apierrors "wbreport/internal/errors"
	"wbreport/internal/exporter"
	"wbreport/internal/services"
	"wbreport/internal/validation"
	apiv1 "wbreport/pkg/contracts/api/v1"
	"wbreport/pkg/contracts/domain"
)

// XLSXContentType is the media type of the summary workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// multipartMemory is the part of an upload kept in memory; the rest spills
// to temporary files.
const multipartMemory = 32 << 20

// AnalysisHandlerConfig carries the request defaults and upload limits.
type AnalysisHandlerConfig struct {
	Options      analysis.Options
	DefaultLabel string
	MaxFiles     int
	MaxBytes     int64
}

// AnalysisHandler runs analyses over uploaded report workbooks
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	workbook     *exporter.WorkbookWriter
	validator    *validation.RequestValidator
	cfg          AnalysisHandlerConfig
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, cfg AnalysisHandlerConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	if cfg.DefaultLabel == "" {
		cfg.DefaultLabel = "report"
	}
	return &AnalysisHandler{
		service:      service,
		workbook:     exporter.NewWorkbookWriter(logger),
		validator:    validation.NewRequestValidator(cfg.MaxFiles, cfg.MaxBytes),
		cfg:          cfg,
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Analyze)
	r.Post("/workbook", h.AnalyzeWorkbook)
	return r
}

// Analyze handles POST /api/v1/analyses and answers with the JSON report
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	report, ok := h.run(w, r)
	if !ok {
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, apiv1.AnalysisResponse{
		Report:   report,
		Headline: services.Headline(report.Overview),
	})
}

// AnalyzeWorkbook handles POST /api/v1/analyses/workbook and answers with
// the summary workbook as an attachment
func (h *AnalysisHandler) AnalyzeWorkbook(w http.ResponseWriter, r *http.Request) {
	report, ok := h.run(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.workbook.Write(r.Context(), &buf, report); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{
		"filename": exporter.SummaryFileName(report.Label),
	})
	w.Header().Set("Content-Type", XLSXContentType)
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "failed to stream workbook", slog.String("error", err.Error()))
	}
}

// run parses the upload, validates it and runs the analysis. On failure the
// error response has already been written.
func (h *AnalysisHandler) run(w http.ResponseWriter, r *http.Request) (*domain.AnalysisReport, bool) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
		} else {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		}
		return nil, false
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	form := r.MultipartForm
	reports := form.File[apiv1.FormFieldReports]
	var cost *multipart.FileHeader
	if fhs := form.File[apiv1.FormFieldCost]; len(fhs) > 0 {
		cost = fhs[0]
	}

	req := validation.AnalysisRequest{
		Label:         r.FormValue(apiv1.FormFieldLabel),
		PayablePolicy: r.FormValue(apiv1.FormFieldPayablePolicy),
	}
	for _, fh := range reports {
		req.ReportNames = append(req.ReportNames, fh.Filename)
		req.TotalBytes += fh.Size
	}
	if cost != nil {
		req.CostName = cost.Filename
		req.TotalBytes += cost.Size
	}

	if err := h.validator.Validate(req); err != nil {
		h.errorHandler.HandleError(w, r, toAPIValidationError(err))
		return nil, false
	}

	h.logger.InfoContext(ctx, "analysis request received",
		slog.Int("reports", len(req.ReportNames)),
		slog.Bool("cost", cost != nil),
		slog.Int64("total_bytes", req.TotalBytes),
	)

	in := services.AnalysisInput{
		Label:   exporter.SanitizeLabel(req.Label, h.cfg.DefaultLabel),
		Options: h.cfg.Options,
	}
	if req.PayablePolicy != "" {
		in.Options.PayablePolicy = domain.PayablePolicy(req.PayablePolicy)
	}

	var opened []io.Closer
	defer func() {
		for _, c := range opened {
			_ = c.Close()
		}
	}()

	for _, fh := range reports {
		f, err := fh.Open()
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return nil, false
		}
		opened = append(opened, f)
		in.Reports = append(in.Reports, dataprocessing.Source{Name: fh.Filename, Reader: f})
	}
	if cost != nil {
		f, err := cost.Open()
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return nil, false
		}
		opened = append(opened, f)
		in.Cost = &dataprocessing.Source{Name: cost.Filename, Reader: f}
	}

	report, err := h.service.Analyze(ctx, in)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	return report, true
}

// toAPIValidationError converts request validation failures into a 400 with
// one entry per rejected field.
func toAPIValidationError(err error) error {
	fields := validation.Fields(err)
	if len(fields) == 0 {
		return err
	}
	out := make([]apierrors.ValidationError, len(fields))
	for i, f := range fields {
		out[i] = apierrors.ValidationError{Field: f.Field, Message: f.Message}
	}
	return apierrors.NewValidationErrors(out)
}
