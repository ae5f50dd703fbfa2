// Package http provides the HTTP handlers of the envelope API. Handlers only
// move opaque base64 strings; they never see keys or plaintext.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	clipDomain "github.com/allisson/clip/internal/clip/domain"
	"github.com/allisson/clip/internal/clip/http/dto"
	clipUseCase "github.com/allisson/clip/internal/clip/usecase"
	apperrors "github.com/allisson/clip/internal/errors"
	"github.com/allisson/clip/internal/httputil"
	customValidation "github.com/allisson/clip/internal/validation"
)

// EnvelopeHandler handles HTTP requests for envelope operations.
type EnvelopeHandler struct {
	useCase clipUseCase.EnvelopeUseCase
	logger  *slog.Logger
}

// NewEnvelopeHandler creates a new envelope handler.
func NewEnvelopeHandler(useCase clipUseCase.EnvelopeUseCase, logger *slog.Logger) *EnvelopeHandler {
	return &EnvelopeHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// CreateHandler stores an envelope.
// POST /api/create - Returns 201 with the new id and effective ttl.
func (h *EnvelopeHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateEnvelopeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		if bindErr := bindError(err); bindErr != nil {
			httputil.HandleErrorGin(c, bindErr, h.logger)
			return
		}
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.useCase.Create(c.Request.Context(), req.ToEnvelope(), req.TTL)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCreateResultToResponse(result))
}

// FetchHandler returns an envelope.
// GET /api/secret/:id - Returns 404 for absent, expired and deleted ids alike.
func (h *EnvelopeHandler) FetchHandler(c *gin.Context) {
	envelope, err := h.useCase.Fetch(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.MapEnvelopeToResponse(envelope))
}

// DeleteHandler removes an envelope.
// DELETE /api/secret/:id - Succeeds for valid ids whether or not they exist.
func (h *EnvelopeHandler) DeleteHandler(c *gin.Context) {
	if err := h.useCase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: dto.MessageDeleted})
}

// HealthHandler reports the backend kind.
// GET /api/health - Always 200.
func (h *EnvelopeHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MapHealthToResponse(h.useCase.Health(c.Request.Context())))
}

// bindError turns body decoding failures that have a precise cause into
// input errors. It returns nil for plain syntax errors.
func bindError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if apperrors.As(err, &maxBytesErr) {
		return clipDomain.ErrEnvelopeTooLarge
	}

	var typeErr *json.UnmarshalTypeError
	if apperrors.As(err, &typeErr) {
		if typeErr.Field == "ttl" {
			return clipDomain.ErrInvalidTTL
		}
		return apperrors.Wrapf(apperrors.ErrInvalidInput, "%s must be a string", typeErr.Field)
	}

	return nil
}
