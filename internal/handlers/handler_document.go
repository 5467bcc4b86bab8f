package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hisaabkitab/hisaab_backend/internal/apperrors"
	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	portssvc "github.com/hisaabkitab/hisaab_backend/internal/core/ports/services"
	"github.com/hisaabkitab/hisaab_backend/internal/core/services"
	"github.com/hisaabkitab/hisaab_backend/internal/dto"
	"github.com/hisaabkitab/hisaab_backend/internal/middleware"
)

// documentHandler handles HTTP requests related to invoices and purchases.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
}

func newDocumentHandler(ds portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{documentService: ds}
}

// RegisterDocumentRoutes registers routes related to documents. Payment
// routes nest under documents and are registered alongside.
func RegisterDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade, paymentService portssvc.PaymentSvcFacade) {
	h := newDocumentHandler(documentService)

	documents := rg.Group("/documents")
	{
		documents.POST("", h.createDocument)
		documents.GET("", h.listDocuments)
		documents.GET("/:id", h.getDocument)
		documents.PUT("/:id", h.updateDocument)
		documents.POST("/:id/send", h.sendDocument)
		documents.POST("/:id/cancel", h.cancelDocument)
	}
	registerPaymentRoutes(documents, paymentService)
}

// writeDocumentError maps document service errors to HTTP responses.
func writeDocumentError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, services.ErrPartyInactive),
		errors.Is(err, services.ErrPartyTypeMismatch),
		errors.Is(err, services.ErrEmptyDocument),
		errors.Is(err, services.ErrInvalidLine),
		errors.Is(err, services.ErrDocumentNotDraft),
		errors.Is(err, services.ErrPaidExceedsTotal):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDocumentCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": "Document is cancelled"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Document was modified concurrently, retry the request"})
	case errors.Is(err, apperrors.ErrRoundingInvariant):
		logger.Error("Rounding invariant violated", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Tax computation failed"})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// createDocument godoc
// @Summary Create a new document
// @Description Creates an invoice or purchase in DRAFT state with recomputed totals
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   document body dto.CreateDocumentRequest true "Document details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create document"
// @Security BearerAuth
// @Router /documents [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDocument", slog.String("error", err.Error()))
		if fields := dto.FieldErrors(err); fields != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": fields})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentService.CreateDocument(c.Request.Context(), req, creatorUserID)
	if err != nil {
		writeDocumentError(c, logger, err, "create document")
		return
	}

	logger.Info("Document created successfully",
		slog.String("document_id", doc.DocumentID),
		slog.String("document_number", doc.DocumentNumber))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc, time.Now().UTC()))
}

// getDocument godoc
// @Summary Get a document by ID
// @Description Retrieves a document with its lines and derived overdue state
// @Tags documents
// @Produce  json
// @Param   id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Failed to retrieve document"
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("id")

	doc, err := h.documentService.GetDocumentByID(c.Request.Context(), documentID)
	if err != nil {
		writeDocumentError(c, logger, err, "retrieve document")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc, time.Now().UTC()))
}

// listDocuments godoc
// @Summary List documents
// @Description Retrieves a token-paginated page of documents, newest first
// @Tags documents
// @Produce  json
// @Param   type query string false "Document type (INVOICE or PURCHASE)"
// @Param   status query string false "Lifecycle status filter"
// @Param   partyID query string false "Party filter"
// @Param   from query string false "Document date lower bound (RFC3339)"
// @Param   to query string false "Document date upper bound (RFC3339)"
// @Param   limit query int false "Page size (default 20)"
// @Param   nextToken query string false "Pagination cursor from a previous page"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 400 {object} map[string]string "Invalid filter or cursor"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list documents"
// @Security BearerAuth
// @Router /documents [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListDocumentsParams{}
	if typeStr := c.Query("type"); typeStr != "" {
		dt := domain.DocumentType(typeStr)
		if dt != domain.Invoice && dt != domain.Purchase {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document type: " + typeStr})
			return
		}
		params.DocumentType = &dt
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.DocumentStatus(statusStr)
		params.Status = &status
	}
	if partyID := c.Query("partyID"); partyID != "" {
		params.PartyID = &partyID
	}
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' date: " + fromStr})
			return
		}
		params.FromDate = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' date: " + toStr})
			return
		}
		params.ToDate = &to
	}
	params.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.documentService.ListDocuments(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list documents from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateDocument godoc
// @Summary Update a document
// @Description Applies edits and recomputes totals; cancelled documents are immutable
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   id path string true "Document ID"
// @Param   document body dto.UpdateDocumentRequest true "Fields to update"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document cancelled or modified concurrently"
// @Failure 500 {object} map[string]string "Failed to update document"
// @Security BearerAuth
// @Router /documents/{id} [put]
func (h *documentHandler) updateDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("id")

	var req dto.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentService.UpdateDocument(c.Request.Context(), documentID, req, userID)
	if err != nil {
		writeDocumentError(c, logger, err, "update document")
		return
	}

	logger.Info("Document updated successfully", slog.String("document_id", documentID))
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc, time.Now().UTC()))
}

// sendDocument godoc
// @Summary Issue a draft document
// @Description Transitions a draft to SENT (reported as RECEIVED for purchases)
// @Tags documents
// @Produce  json
// @Param   id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Document is not a draft or has no lines"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is cancelled"
// @Failure 500 {object} map[string]string "Failed to issue document"
// @Security BearerAuth
// @Router /documents/{id}/send [post]
func (h *documentHandler) sendDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentService.MarkDocumentSent(c.Request.Context(), documentID, userID)
	if err != nil {
		writeDocumentError(c, logger, err, "issue document")
		return
	}

	logger.Info("Document issued successfully", slog.String("document_id", documentID))
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc, time.Now().UTC()))
}

// cancelDocument godoc
// @Summary Cancel a document
// @Description Terminally cancels a document, freezing edits and payments
// @Tags documents
// @Produce  json
// @Param   id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is already cancelled"
// @Failure 500 {object} map[string]string "Failed to cancel document"
// @Security BearerAuth
// @Router /documents/{id}/cancel [post]
func (h *documentHandler) cancelDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentService.CancelDocument(c.Request.Context(), documentID, userID)
	if err != nil {
		writeDocumentError(c, logger, err, "cancel document")
		return
	}

	logger.Info("Document cancelled successfully", slog.String("document_id", documentID))
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc, time.Now().UTC()))
}
