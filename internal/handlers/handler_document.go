package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
	portsrepo "github.com/AtelierRenaudin/commercial_docs_app/internal/core/ports/repositories"
	portssvc "github.com/AtelierRenaudin/commercial_docs_app/internal/core/ports/services"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/dto"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// documentHandler handles HTTP requests related to commercial documents.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
}

// newDocumentHandler creates a new documentHandler.
func newDocumentHandler(ds portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{documentService: ds}
}

// registerDocumentRoutes registers document specific routes.
func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade, paymentService portssvc.PaymentSvcFacade) {
	h := newDocumentHandler(documentService)

	documents := rg.Group("/documents")
	{
		documents.POST("", h.createDocument)
		documents.GET("", h.listDocuments)
		documents.GET("/:documentID", h.getDocument)
		documents.PATCH("/:documentID", h.updateDocument)
		documents.PUT("/:documentID/items", h.replaceItems)
		documents.POST("/:documentID/avoir", h.createAvoir)
		documents.POST("/:documentID/generate", h.generateDocument)
		documents.POST("/:documentID/apply-deposits", h.reapplyDeposits)

		registerPaymentRoutes(documents, paymentService)
	}
}

func (h *documentHandler) detailResponse(detail *portssvc.DocumentDetail) dto.DocumentResponse {
	resp := dto.ToDocumentDetailResponse(detail.Document, detail.Items, time.Now())
	resp.Warnings = detail.Warnings
	return resp
}

// createDocument godoc
// @Summary Create a commercial document
// @Description Creates a document of the given type with computed line totals, aggregated totals and an assigned number.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   document body dto.CreateDocumentRequest true "Document details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Numbering busy"
// @Security BearerAuth
// @Router /documents [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for CreateDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	detail, err := h.documentService.CreateDocument(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Document created",
		slog.String("document_id", detail.Document.DocumentID),
		slog.String("doc_number", detail.Document.Number),
	)
	c.JSON(http.StatusCreated, h.detailResponse(detail))
}

// getDocument godoc
// @Summary Get a document
// @Description Retrieves a document with its items, tax breakdown and allowed next statuses.
// @Tags documents
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} map[string]string "Document not found"
// @Security BearerAuth
// @Router /documents/{documentID} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	documentID := c.Param("documentID")

	detail, err := h.documentService.GetDocument(c.Request.Context(), documentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.detailResponse(detail))
}

// listDocuments godoc
// @Summary List documents
// @Description Retrieves documents filtered by type, status and client, newest first, with token pagination.
// @Tags documents
// @Produce  json
// @Param   type query string false "Document type"
// @Param   status query string false "Document status"
// @Param   clientId query string false "Client ID"
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Security BearerAuth
// @Router /documents [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	var filter portsrepo.DocumentListFilter
	if t := c.Query("type"); t != "" {
		dt := domain.DocumentType(t)
		filter.Type = &dt
	}
	if s := c.Query("status"); s != "" {
		ds := domain.DocumentStatus(s)
		filter.Status = &ds
	}
	if cl := c.Query("clientId"); cl != "" {
		filter.ClientID = &cl
	}

	limit := 0
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}
	var nextToken *string
	if t := c.Query("nextToken"); t != "" {
		nextToken = &t
	}

	docs, token, err := h.documentService.ListDocuments(c.Request.Context(), filter, limit, nextToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	now := time.Now()
	resp := dto.ListDocumentsResponse{
		Documents: make([]dto.DocumentResponse, len(docs)),
		NextToken: token,
	}
	for i := range docs {
		resp.Documents[i] = dto.ToDocumentResponse(&docs[i], now)
	}
	c.JSON(http.StatusOK, resp)
}

// updateDocument godoc
// @Summary Update a document
// @Description Applies a status transition and/or header field edits. Field edits are rejected once the document leaves DRAFT.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Param   document body dto.UpdateDocumentRequest true "Fields to update"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document locked or illegal transition"
// @Security BearerAuth
// @Router /documents/{documentID} [patch]
func (h *documentHandler) updateDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	var req dto.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for UpdateDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	detail, err := h.documentService.UpdateDocument(c.Request.Context(), documentID, req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.detailResponse(detail))
}

// replaceItems godoc
// @Summary Replace a document's lines
// @Description Swaps the full line set and recomputes all totals, only while the document is editable.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Param   items body dto.ReplaceItemsRequest true "New line set"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Document locked"
// @Security BearerAuth
// @Router /documents/{documentID}/items [put]
func (h *documentHandler) replaceItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	var req dto.ReplaceItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for ReplaceItems", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	detail, err := h.documentService.ReplaceItems(c.Request.Context(), documentID, req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.detailResponse(detail))
}

// createAvoir godoc
// @Summary Create a credit note
// @Description Creates an avoir against an issued facture, pre-populated from the parent's lines when none are given.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   documentID path string true "Parent facture ID"
// @Param   avoir body dto.CreateAvoirRequest true "Avoir details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Parent cannot carry an avoir"
// @Security BearerAuth
// @Router /documents/{documentID}/avoir [post]
func (h *documentHandler) createAvoir(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	parentID := c.Param("documentID")

	var req dto.CreateAvoirRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for CreateAvoir", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	detail, err := h.documentService.CreateAvoir(c.Request.Context(), parentID, req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Avoir created",
		slog.String("avoir_id", detail.Document.DocumentID),
		slog.String("parent_id", parentID),
	)
	c.JSON(http.StatusCreated, h.detailResponse(detail))
}

// generateDocument godoc
// @Summary Generate the next document in the chain
// @Description Creates the target document (bon de commande, bon de livraison, PV, facture or facture d'acompte) from an existing one.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   documentID path string true "Source document ID"
// @Param   target body dto.GenerateDocumentRequest true "Target type"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Chain or status does not allow the target"
// @Security BearerAuth
// @Router /documents/{documentID}/generate [post]
func (h *documentHandler) generateDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	parentID := c.Param("documentID")

	var req dto.GenerateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for GenerateDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	detail, err := h.documentService.GenerateChild(c.Request.Context(), parentID, req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Document generated",
		slog.String("document_id", detail.Document.DocumentID),
		slog.String("parent_id", parentID),
		slog.String("doc_type", string(detail.Document.Type)),
	)
	c.JSON(http.StatusCreated, h.detailResponse(detail))
}

// reapplyDeposits godoc
// @Summary Re-apply deposits to a final invoice
// @Description Refreshes the netted deposit total from the linked devis' paid deposit invoices.
// @Tags documents
// @Produce  json
// @Param   documentID path string true "Facture ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Deposit already applied elsewhere"
// @Security BearerAuth
// @Router /documents/{documentID}/apply-deposits [post]
func (h *documentHandler) reapplyDeposits(c *gin.Context) {
	documentID := c.Param("documentID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	detail, err := h.documentService.ReapplyDeposits(c.Request.Context(), documentID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.detailResponse(detail))
}
