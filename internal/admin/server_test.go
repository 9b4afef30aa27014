package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/riverflow-io/riverflow/internal/coordinator"
	"github.com/riverflow-io/riverflow/internal/invokegw"
	"github.com/riverflow-io/riverflow/internal/objectgw"
	"github.com/riverflow-io/riverflow/internal/queuegw"
	"github.com/riverflow-io/riverflow/internal/resourcemap"
	"github.com/riverflow-io/riverflow/internal/wfcore"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	objgw := objectgw.New(objectgw.NewMemBackend())
	require.NoError(t, objgw.PutJson(context.Background(), "arnMap.json", map[string]any{
		resourcemap.LedgerSymbol(wfcore.CoordinatorName): "coordinator-ledger",
		resourcemap.LedgerSymbol(wfcore.InvokerName):     "invoker-ledger",
		wfcore.CoordinatorName:                            "fn-coordinator",
		wfcore.InvokerName:                                "fn-invoker",
	}))
	loader := resourcemap.New(objgw)
	qgw := queuegw.New(queuegw.NewMemBackend())
	igw := invokegw.New(invokegw.NewMemBackend())

	components := map[string]wfcore.Component{
		wfcore.CoordinatorName: {Name: wfcore.CoordinatorName, Kind: wfcore.KindInternal},
		wfcore.InvokerName:     {Name: wfcore.InvokerName, Kind: wfcore.KindInternal},
	}
	coord := coordinator.New(loader, "arnMap.json", "confirm.txt", components, qgw, objgw, igw, 1, 10, 50, time.Millisecond)
	return New(coord)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	router := srv.NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "healthy")
}

func TestStatusBeforeSeedIsNotFound(t *testing.T) {
	srv := newTestServer(t)
	router := srv.NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSeedThenStatusReflectsPass(t *testing.T) {
	srv := newTestServer(t)
	router := srv.NewRouter()

	seedReq := httptest.NewRequest(http.MethodPost, "/seed", nil)
	seedW := httptest.NewRecorder()
	router.ServeHTTP(seedW, seedReq)
	require.Equal(t, http.StatusOK, seedW.Code)

	statusReq := httptest.NewRequest(http.MethodGet, "/status", nil)
	statusW := httptest.NewRecorder()
	router.ServeHTTP(statusW, statusReq)
	require.Equal(t, http.StatusOK, statusW.Code)
	require.Contains(t, statusW.Body.String(), `"generation":1`)
}
