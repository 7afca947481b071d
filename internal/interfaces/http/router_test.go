package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jurimetric/lexmeta/internal/application/caselaw"
	"github.com/jurimetric/lexmeta/internal/infrastructure/database/postgres/repositories"
	"github.com/jurimetric/lexmeta/internal/interfaces/http/handlers"
	"github.com/jurimetric/lexmeta/pkg/errors"
	caselawtypes "github.com/jurimetric/lexmeta/pkg/types/caselaw"
)

type stubService struct{}

func (stubService) ExtractText(context.Context, string) (*caselawtypes.CaseMetadata, bool, error) {
	return caselawtypes.NewCaseMetadata(), false, nil
}

func (stubService) ProcessText(context.Context, string, string) (*caselaw.ProcessResult, error) {
	return &caselaw.ProcessResult{CaseID: "case-1"}, nil
}

func (stubService) ProcessFile(context.Context, string) (*caselaw.ProcessResult, error) {
	return &caselaw.ProcessResult{CaseID: "case-1"}, nil
}

func (stubService) ProcessDir(context.Context, string) (*caselaw.BatchResult, error) {
	return &caselaw.BatchResult{}, nil
}

func (stubService) GetCase(_ context.Context, id string) (*repositories.CaseRecord, error) {
	if id == "missing" {
		return nil, errors.New(errors.ErrCodeCaseNotFound, "case not found")
	}
	return &repositories.CaseRecord{ID: id}, nil
}

func (stubService) ListCases(context.Context, repositories.ListFilter) ([]*repositories.CaseRecord, error) {
	return nil, nil
}

func (stubService) CountCases(context.Context) (int64, error) { return 0, nil }

func newRouterForTest() *gin.Engine {
	return NewRouter(RouterConfig{
		CaseHandler:   handlers.NewCaseHandler(stubService{}, nil, nil),
		HealthHandler: handlers.NewHealthHandler("test"),
		Mode:          gin.TestMode,
	})
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRouterMountsProbeEndpoints(t *testing.T) {
	r := newRouterForTest()

	assert.Equal(t, http.StatusOK, get(r, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(r, "/readyz").Code)
}

func TestRouterMountsCaseRoutes(t *testing.T) {
	r := newRouterForTest()

	assert.Equal(t, http.StatusOK, get(r, "/api/v1/cases").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/cases/case-1").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/v1/cases/missing").Code)

	// Search is registered but unconfigured in this setup.
	assert.Equal(t, http.StatusServiceUnavailable, get(r, "/api/v1/cases/search").Code)
}

func TestRouterUnknownRoute(t *testing.T) {
	r := newRouterForTest()

	assert.Equal(t, http.StatusNotFound, get(r, "/api/v1/molecules").Code)
}

func TestRouterEchoesRequestID(t *testing.T) {
	r := newRouterForTest()

	w := get(r, "/api/v1/cases")
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
