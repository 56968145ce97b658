package api

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"MedalTally/internal/apperr"
	"MedalTally/internal/repository"
	"MedalTally/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ImportHandler struct {
	importService *service.ImportService
	dataDir       string
	logger        *logrus.Logger
}

func NewImportHandler(importService *service.ImportService, dataDir string, logger *logrus.Logger) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		dataDir:       dataDir,
		logger:        logger,
	}
}

// ImportDatasetHandler 导入数据目录下的指定数据集
// @Summary 触发数据集导入
// @Param dataset path string true "数据集名称（hosts/athletes/.../all）"
// @Param file query string false "文件名（默认为数据集的标准文件名）"
// @Success 200 {object} service.Summary
// @Failure 409 {object} map[string]string
// @Router /import/{dataset} [post]
func (h *ImportHandler) ImportDatasetHandler(c *gin.Context) {
	dataset := c.Param("dataset")
	ctx := c.Request.Context()

	if dataset == "all" {
		sums, err := h.importService.TryImportAll(ctx, h.dataDir)
		if err != nil {
			h.fail(c, dataset, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"runs": sums})
		return
	}

	name, err := h.importService.FileName(dataset)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	file := c.DefaultQuery("file", name)
	// 只允许数据目录下的文件
	path := filepath.Join(h.dataDir, filepath.Base(file))

	sum, err := h.importService.TryImport(ctx, dataset, path)
	if err != nil {
		h.fail(c, dataset, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *ImportHandler) fail(c *gin.Context, dataset string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrImportBusy):
		status = http.StatusConflict
	case apperr.IsFileLevel(err):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrMalformedInput):
		status = http.StatusUnprocessableEntity
	}
	h.logger.WithError(err).WithField("dataset", dataset).Error("导入失败")
	c.JSON(status, gin.H{"error": err.Error()})
}

// ListRuns 最近的导入记录
// GET /api/imports?limit=20
func (h *ImportHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := h.importService.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("ListRuns failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, runs)
}

// GetRun 导入记录详情（含跳过的行）
// GET /api/imports/:id
func (h *ImportHandler) GetRun(c *gin.Context) {
	run, skips, err := h.importService.Run(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "import run not found"})
			return
		}
		h.logger.WithError(err).Error("GetRun failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "skips": skips})
}
