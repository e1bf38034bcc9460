package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"omr-grader/internal/logging"
	"omr-grader/internal/omr"
)

// Upload and lookup errors surfaced by the evaluation handlers.
var (
	ErrNoFileUploaded     = errors.New("no sheet uploaded")
	ErrFileTooLarge       = errors.New("file size exceeds limit")
	ErrNotAnImage         = errors.New("uploaded file is not an image")
	ErrBadRequestBody     = errors.New("request body could not be parsed")
	ErrEvaluationNotFound = errors.New("evaluation not found")
)

type ErrorHandler struct {
	logger *logrus.Logger
}

func NewErrorHandler(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

// Handle maps a failure to its HTTP response and logs it with the
// request context.
func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	var configErr *omr.ConfigurationError
	if errors.As(err, &configErr) {
		h.logger.WithFields(logging.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Grading configuration rejected")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "CONFIGURATION_ERROR",
		})
	}

	var inputErr *omr.InputError
	if errors.As(err, &inputErr) {
		h.logger.WithFields(logging.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Sheet image rejected")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Uploaded file could not be decoded as an image",
			"code":  "INVALID_SHEET_IMAGE",
		})
	}

	if errors.Is(err, ErrNoFileUploaded) {
		h.logger.WithFields(logging.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("No sheet uploaded")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No sheet uploaded. Send the image in the \"sheet\" form field.",
		})
	}

	if errors.Is(err, ErrFileTooLarge) {
		h.logger.WithFields(logging.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("File too large")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File exceeds the upload size limit",
		})
	}

	if errors.Is(err, ErrNotAnImage) {
		h.logger.WithFields(logging.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Invalid file type")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid file type. Only images are allowed.",
		})
	}

	if errors.Is(err, ErrBadRequestBody) {
		h.logger.WithFields(logging.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Malformed request body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Request body could not be parsed",
		})
	}

	if errors.Is(err, ErrEvaluationNotFound) {
		h.logger.WithFields(logging.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Evaluation not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Evaluation not found",
		})
	}

	traceID := logging.ErrorWithTraceID(logging.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}, "Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":    "An unexpected error occurred",
		"trace_id": traceID,
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(logging.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
