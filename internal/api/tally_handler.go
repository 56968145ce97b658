package api

import (
	"errors"
	"net/http"
	"strconv"

	"MedalTally/internal/repository"
	"MedalTally/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TallyHandler 奖牌榜查询接口
type TallyHandler struct {
	tallyService *service.TallyService
	logger       *logrus.Logger
}

// NewTallyHandler 创建 TallyHandler
func NewTallyHandler(tallyService *service.TallyService, logger *logrus.Logger) *TallyHandler {
	return &TallyHandler{tallyService: tallyService, logger: logger}
}

// Leaderboard 国家奖牌榜
// GET /api/tally?season=Summer&limit=10
func (h *TallyHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	list, err := h.tallyService.Leaderboard(c.Request.Context(), c.Query("season"), limit)
	if err != nil {
		h.respondError(c, "Leaderboard", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// HostTally 单届奖牌榜
// GET /api/hosts/:slug/tally?limit=10
func (h *TallyHandler) HostTally(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	report, err := h.tallyService.HostTally(c.Request.Context(), c.Param("slug"), limit)
	if err != nil {
		h.respondError(c, "HostTally", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListHosts 届次列表
// GET /api/hosts?season=Winter
func (h *TallyHandler) ListHosts(c *gin.Context) {
	hosts, err := h.tallyService.Hosts(c.Request.Context(), c.Query("season"))
	if err != nil {
		h.respondError(c, "ListHosts", err)
		return
	}
	c.JSON(http.StatusOK, hosts)
}

// CountryTimeline 国家历届奖牌走势
// GET /api/countries/:code/timeline?season=Summer
func (h *TallyHandler) CountryTimeline(c *gin.Context) {
	tl, err := h.tallyService.CountryTimeline(c.Request.Context(), c.Param("code"), c.Query("season"))
	if err != nil {
		h.respondError(c, "CountryTimeline", err)
		return
	}
	c.JSON(http.StatusOK, tl)
}

// CountryMedals 国家奖牌明细（按分项分组）
// GET /api/countries/:code/medals?host=tokyo-2020
func (h *TallyHandler) CountryMedals(c *gin.Context) {
	report, err := h.tallyService.CountryMedals(c.Request.Context(), c.Param("code"), c.Query("host"))
	if err != nil {
		h.respondError(c, "CountryMedals", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *TallyHandler) respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidFilter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).Error(op + " failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// RegisterRoutes 注册全部 HTTP 路由
func RegisterRoutes(r gin.IRouter, imports *ImportHandler, tally *TallyHandler) {
	r.POST("/import/:dataset", imports.ImportDatasetHandler)
	r.GET("/api/imports", imports.ListRuns)
	r.GET("/api/imports/:id", imports.GetRun)

	r.GET("/api/tally", tally.Leaderboard)
	r.GET("/api/hosts", tally.ListHosts)
	r.GET("/api/hosts/:slug/tally", tally.HostTally)
	r.GET("/api/countries/:code/timeline", tally.CountryTimeline)
	r.GET("/api/countries/:code/medals", tally.CountryMedals)
}
