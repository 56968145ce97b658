package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"MedalTally/internal/apperr"
	"MedalTally/internal/config"
	"MedalTally/internal/flagurl"
	"MedalTally/internal/importer"
	"MedalTally/internal/repository"
	"MedalTally/internal/service"
	"MedalTally/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtures = "../service/testdata"

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := testutil.NewLogger()
	store := repository.NewStore(testutil.NewDB(t))
	deps := importer.NewDeps(&config.ImportConfig{ParisHostSlug: "paris-2024", ParisYear: 2024},
		flagurl.Placeholder("placeholder.png"), logger)
	imports := service.NewImportService(store, importer.NewRegistry(deps), logger)
	tally := service.NewTallyService(store, repository.NewTallyRepository(store.DB()), logger)

	r := gin.New()
	RegisterRoutes(r, NewImportHandler(imports, fixtures, logger), NewTallyHandler(tally, logger))
	return r
}

func do(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestImportDatasetHandler(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/import/hosts")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var sum service.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	assert.Equal(t, "hosts", sum.Dataset)
	assert.Equal(t, 3, sum.Upserted)
	assert.NotEmpty(t, sum.RunID)

	w = do(r, http.MethodGet, "/api/imports/"+sum.RunID)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Run struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"run"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, sum.RunID, detail.Run.ID)
	assert.Equal(t, "succeeded", detail.Run.Status)

	w = do(r, http.MethodGet, "/api/imports")
	require.Equal(t, http.StatusOK, w.Code)
	var runs []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	assert.Len(t, runs, 1)
}

func TestImportDatasetHandlerErrors(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/import/unknown")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/import/hosts?file=missing.csv")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 路径只取文件名，不能跳出数据目录
	w = do(r, http.MethodPost, "/import/hosts?file=../../../etc/olympic_hosts.csv")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/imports/does-not-exist")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportAllAndTallyRoutes(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/import/all")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/api/tally?limit=2")
	require.Equal(t, http.StatusOK, w.Code)
	var board []struct {
		Code  string `json:"code"`
		Total int    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	require.Len(t, board, 2)
	assert.Equal(t, "USA", board[0].Code)
	assert.Equal(t, 3, board[0].Total)

	w = do(r, http.MethodGet, "/api/tally?season=spring")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/hosts?season=Winter")
	require.Equal(t, http.StatusOK, w.Code)
	var hosts []struct {
		Slug string `json:"slug"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hosts))
	require.Len(t, hosts, 1)
	assert.Equal(t, "beijing-2022", hosts[0].Slug)

	w = do(r, http.MethodGet, "/api/hosts/paris-2024/tally")
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodGet, "/api/hosts/atlantis-1900/tally")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/api/countries/USA/timeline")
	require.Equal(t, http.StatusOK, w.Code)
	var tl struct {
		Points []struct {
			Year  int `json:"year"`
			Total int `json:"total"`
		} `json:"points"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tl))
	assert.NotEmpty(t, tl.Points)

	w = do(r, http.MethodGet, "/api/countries/USA/medals?host=paris-2024")
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodGet, "/api/countries/ZZZ/medals")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewImportHandler(nil, fixtures, testutil.NewLogger())
	cases := map[error]int{
		service.ErrImportBusy:                       http.StatusConflict,
		fmt.Errorf("x: %w", apperr.ErrFileNotFound): http.StatusNotFound,
		apperr.Malformed("header", "", nil):         http.StatusUnprocessableEntity,
		errors.New("boom"):                          http.StatusInternalServerError,
	}
	for err, want := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		h.fail(c, "hosts", err)
		assert.Equal(t, want, w.Code, err.Error())
	}
}
