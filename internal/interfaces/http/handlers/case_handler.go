package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jurimetric/lexmeta/internal/application/caselaw"
	"github.com/jurimetric/lexmeta/internal/infrastructure/database/postgres/repositories"
	"github.com/jurimetric/lexmeta/internal/infrastructure/monitoring/logging"
	"github.com/jurimetric/lexmeta/internal/infrastructure/search/opensearch"
	"github.com/jurimetric/lexmeta/pkg/errors"
	caselawtypes "github.com/jurimetric/lexmeta/pkg/types/caselaw"
)

// CaseService is the slice of the application service the HTTP layer needs.
type CaseService interface {
	ExtractText(ctx context.Context, text string) (*caselawtypes.CaseMetadata, bool, error)
	ProcessText(ctx context.Context, text, sourcePath string) (*caselaw.ProcessResult, error)
	ProcessFile(ctx context.Context, path string) (*caselaw.ProcessResult, error)
	ProcessDir(ctx context.Context, dir string) (*caselaw.BatchResult, error)
	GetCase(ctx context.Context, id string) (*repositories.CaseRecord, error)
	ListCases(ctx context.Context, filter repositories.ListFilter) ([]*repositories.CaseRecord, error)
	CountCases(ctx context.Context) (int64, error)
}

// CaseSearcher runs full-text queries against the search index.
type CaseSearcher interface {
	Search(ctx context.Context, q opensearch.CaseQuery) (*opensearch.CaseSearchResult, error)
}

// CaseHandler exposes the extraction pipeline and the case store over HTTP.
// Searcher is optional; the search endpoint returns 503 when it is absent.
type CaseHandler struct {
	service  CaseService
	searcher CaseSearcher
	logger   logging.Logger
}

// NewCaseHandler builds a CaseHandler.
func NewCaseHandler(service CaseService, searcher CaseSearcher, logger logging.Logger) *CaseHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CaseHandler{
		service:  service,
		searcher: searcher,
		logger:   logger.Named("case_handler"),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Request / response bodies
// ─────────────────────────────────────────────────────────────────────────────

// ExtractRequest carries raw opinion text for extraction.
type ExtractRequest struct {
	Text string `json:"text" binding:"required"`
}

// ExtractResponse returns the extracted metadata without persisting it.
type ExtractResponse struct {
	Cached   bool                       `json:"cached"`
	Metadata *caselawtypes.CaseMetadata `json:"metadata"`
}

// ProcessRequest runs the full pipeline on raw opinion text.
type ProcessRequest struct {
	Text       string `json:"text" binding:"required"`
	SourcePath string `json:"source_path"`
}

// ProcessDocumentRequest points the pipeline at a file or directory on the
// server.  Exactly one of Path and Dir must be set.
type ProcessDocumentRequest struct {
	Path string `json:"path"`
	Dir  string `json:"dir"`
}

// ListCasesResponse wraps a page of case records with the total count.
type ListCasesResponse struct {
	Total int64                      `json:"total"`
	Cases []*repositories.CaseRecord `json:"cases"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────────────────────────────────────

// Extract handles POST /api/v1/extract.  It runs extraction only and returns
// the metadata; nothing is persisted.
func (h *CaseHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	meta, cached, err := h.service.ExtractText(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExtractResponse{Cached: cached, Metadata: meta})
}

// Create handles POST /api/v1/cases.  It runs the full pipeline on the posted
// text: extract, persist, index, publish, archive.
func (h *CaseHandler) Create(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := h.service.ProcessText(c.Request.Context(), req.Text, req.SourcePath)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ProcessDocuments handles POST /api/v1/documents.  A path runs one file
// through the pipeline; a dir runs a batch.
func (h *CaseHandler) ProcessDocuments(c *gin.Context) {
	var req ProcessDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	switch {
	case req.Path != "" && req.Dir != "":
		respondError(c, errors.New(errors.ErrCodeValidation, "path and dir are mutually exclusive"))
	case req.Path != "":
		result, err := h.service.ProcessFile(c.Request.Context(), req.Path)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	case req.Dir != "":
		batch, err := h.service.ProcessDir(c.Request.Context(), req.Dir)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, batch)
	default:
		respondError(c, errors.New(errors.ErrCodeValidation, "either path or dir is required"))
	}
}

// Get handles GET /api/v1/cases/:id.
func (h *CaseHandler) Get(c *gin.Context) {
	rec, err := h.service.GetCase(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// List handles GET /api/v1/cases with optional court, jurisdiction, and
// prevailing_party filters plus limit/offset pagination.
func (h *CaseHandler) List(c *gin.Context) {
	filter := repositories.ListFilter{
		Court:           c.Query("court"),
		Jurisdiction:    c.Query("jurisdiction"),
		PrevailingParty: c.Query("prevailing_party"),
		Limit:           queryInt(c, "limit", 50),
		Offset:          queryInt(c, "offset", 0),
	}

	ctx := c.Request.Context()
	cases, err := h.service.ListCases(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	total, err := h.service.CountCases(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListCasesResponse{Total: total, Cases: cases})
}

// Search handles GET /api/v1/cases/search against the search index.
func (h *CaseHandler) Search(c *gin.Context) {
	if h.searcher == nil {
		respondError(c, errors.New(errors.ErrCodeServiceUnavailable, "search is not configured"))
		return
	}

	q := opensearch.CaseQuery{
		Text:            c.Query("q"),
		Court:           c.Query("court"),
		Jurisdiction:    c.Query("jurisdiction"),
		Topic:           c.Query("topic"),
		PrevailingParty: c.Query("prevailing_party"),
		From:            queryInt(c, "from", 0),
		Size:            queryInt(c, "size", 0),
	}

	result, err := h.searcher.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
