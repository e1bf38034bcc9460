package server

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"mime/multipart"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"omr-grader/internal/logging"
	"omr-grader/internal/omr"
	"omr-grader/internal/overlay"
	"omr-grader/internal/report"
)

// EvaluationHandler serves the sheet grading endpoints.
type EvaluationHandler struct {
	log        *logrus.Logger
	validator  *validator.Validate
	middleware Middleware
	processor  *omr.Processor
	results    *ResultStore
	maxUpload  int64
}

func NewEvaluationHandler(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware Middleware,
	processor *omr.Processor,
	results *ResultStore,
	maxUpload int64,
) *EvaluationHandler {
	return &EvaluationHandler{
		log:        log,
		validator:  validator,
		middleware: middleware,
		processor:  processor,
		results:    results,
		maxUpload:  maxUpload,
	}
}

func (h *EvaluationHandler) Start(srv fiber.Router) {
	srv.Post("/sheets", h.middleware.NewRateLimiter, h.EvaluateSheet)
	srv.Get("/sheets/:id", h.GetEvaluation)
	srv.Get("/sheets/:id/report", h.DownloadReport)
	srv.Get("/sheets/:id/mask", h.GetMask)
	srv.Get("/sheets/:id/annotated", h.GetAnnotated)
	srv.Get("/sheets/:id/heatmap", h.GetHeatMap)
}

// EvaluateSheet grades an uploaded sheet and stores the result under a
// fresh evaluation ID. The sheet arrives either as a multipart "sheet"
// file or as a JSON body with a base64-encoded image.
func (h *EvaluationHandler) EvaluateSheet(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := NewErrorHandler(h.log)

	h.log.WithFields(logging.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing sheet evaluation request")

	var img image.Image

	file, err := ctx.FormFile("sheet")
	if err == nil {
		h.log.WithFields(logging.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"file_name":  file.Filename,
			"file_size":  file.Size,
		}).Debug("Processing file upload")

		if err := h.validateSheetFile(file); err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "validate_sheet_file")
		}

		fileContent, err := file.Open()
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "open_file")
		}
		defer fileContent.Close()

		img, err = omr.DecodeSheet(fileContent)
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "decode_sheet")
		}
	} else {
		h.log.WithFields(logging.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
		}).Debug("Processing JSON request")

		var req EvaluateRequest
		if err := ctx.BodyParser(&req); err != nil {
			return errHandler.Handle(ctx, requestID, fmt.Errorf("%w: %v", ErrBadRequestBody, err), ctx.Path(), "parse_request_body")
		}

		if err := h.validator.Struct(req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}

		img, err = decodeBase64Sheet(req.ImageBase64)
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "decode_sheet")
		}
	}

	result, err := h.processor.Process(img)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "grade_sheet")
	}

	id := uuid.NewString()
	h.results.Put(id, &SheetRecord{Result: result, Source: img})

	resp := EvaluationResponse{
		ID:         id,
		Sheet:      report.NewSheet(result),
		Percentage: result.Evaluation.Percentage(),
	}
	if ctx.QueryBool("include_mask") {
		mask, err := overlay.RenderMask(result.Mask)
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "render_mask")
		}
		resp.Mask = mask
	}

	h.log.WithFields(logging.Fields{
		"request_id":    requestID,
		"path":          ctx.Path(),
		"evaluation_id": id,
		"score":         result.Evaluation.Score,
		"total":         result.Evaluation.Total,
		"attempted":     result.Evaluation.Attempted,
	}).Info("Sheet graded")

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

// GetEvaluation returns a previously graded sheet by evaluation ID.
func (h *EvaluationHandler) GetEvaluation(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := NewErrorHandler(h.log)

	id := ctx.Params("id")
	record, ok := h.results.Get(id)
	if !ok {
		return errHandler.Handle(ctx, requestID, ErrEvaluationNotFound, ctx.Path(), "get_evaluation")
	}

	resp := EvaluationResponse{
		ID:         id,
		Sheet:      report.NewSheet(record.Result),
		Percentage: record.Result.Evaluation.Percentage(),
	}
	if ctx.QueryBool("include_mask") {
		mask, err := overlay.RenderMask(record.Result.Mask)
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "render_mask")
		}
		resp.Mask = mask
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

// DownloadReport serves the plain-text report as a file download.
func (h *EvaluationHandler) DownloadReport(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := NewErrorHandler(h.log)

	record, ok := h.results.Get(ctx.Params("id"))
	if !ok {
		return errHandler.Handle(ctx, requestID, ErrEvaluationNotFound, ctx.Path(), "download_report")
	}

	ctx.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="omr_report.txt"`)
	return ctx.SendString(report.Text(record.Result.Evaluation))
}

// GetMask renders the binarized ink mask of a graded sheet.
func (h *EvaluationHandler) GetMask(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := NewErrorHandler(h.log)

	record, ok := h.results.Get(ctx.Params("id"))
	if !ok {
		return errHandler.Handle(ctx, requestID, ErrEvaluationNotFound, ctx.Path(), "get_mask")
	}

	mask, err := overlay.RenderMask(record.Result.Mask)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "render_mask")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, mask)
}

// GetAnnotated renders the uploaded sheet with verdict borders and
// question numbers drawn over each cell.
func (h *EvaluationHandler) GetAnnotated(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := NewErrorHandler(h.log)

	record, ok := h.results.Get(ctx.Params("id"))
	if !ok {
		return errHandler.Handle(ctx, requestID, ErrEvaluationNotFound, ctx.Path(), "get_annotated")
	}

	cells := omr.MapGrid(record.Result.Mask.Bounds(), h.processor.Spec())
	annotated, err := overlay.Annotate(record.Source, cells, record.Result.Evaluation)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "render_annotated")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, annotated)
}

// GetHeatMap renders per-question ink intensity over the grid.
func (h *EvaluationHandler) GetHeatMap(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := NewErrorHandler(h.log)

	record, ok := h.results.Get(ctx.Params("id"))
	if !ok {
		return errHandler.Handle(ctx, requestID, ErrEvaluationNotFound, ctx.Path(), "get_heatmap")
	}

	cells := omr.MapGrid(record.Result.Mask.Bounds(), h.processor.Spec())
	heat, err := overlay.HeatMap(record.Result.Mask, cells)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "render_heatmap")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, heat)
}

// validateSheetFile rejects uploads before any bytes are decoded.
func (h *EvaluationHandler) validateSheetFile(file *multipart.FileHeader) error {
	if file == nil {
		return ErrNoFileUploaded
	}

	if file.Size > h.maxUpload {
		return ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}

	return nil
}

func decodeBase64Sheet(encoded string) (image.Image, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &omr.InputError{Err: fmt.Errorf("failed to decode base64 image: %w", err)}
	}
	return omr.DecodeSheet(bytes.NewReader(data))
}
