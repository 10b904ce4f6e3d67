package api

import (
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/junaydArshad/Green-Campus/internal/model"

	"github.com/gin-gonic/gin"
)

type addMeasurementRequest struct {
	HeightCm        *float64 `json:"height_cm" binding:"required"`
	MeasurementDate string   `json:"measurement_date" binding:"required"`
	Notes           string   `json:"notes"`
}

type updateHealthRequest struct {
	HealthStatus string `json:"health_status" binding:"required"`
}

// photoBlobName 从存储的照片 URL（/tree_photos/<file>）取回 blob 文件名。
func photoBlobName(url string) string {
	return path.Base(url)
}

// handleListMeasurements 返回一棵树的测量历史（按测量日期倒序）。
//
// GET /api/growth/:treeId/measurements
func (s *Server) handleListMeasurements(c *gin.Context) {
	tree, ok := s.ownedTree(c)
	if !ok {
		return
	}
	measurements, err := s.store.MeasurementsByTree(tree.ID)
	if err != nil {
		s.logger.Error("list measurements failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list measurements failed"})
		return
	}
	c.JSON(http.StatusOK, measurements)
}

// handleAddMeasurement 记录一次身高测量并同步树的当前高度。
//
// POST /api/growth/:treeId/measurements
func (s *Server) handleAddMeasurement(c *gin.Context) {
	tree, ok := s.ownedTree(c)
	if !ok {
		return
	}

	var req addMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *req.HeightCm <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid height_cm"})
		return
	}
	date, err := parseDate(req.MeasurementDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid measurement_date, expected YYYY-MM-DD"})
		return
	}

	m := &model.TreeMeasurement{
		TreeID:          tree.ID,
		HeightCm:        *req.HeightCm,
		MeasurementDate: date,
		Notes:           req.Notes,
	}
	if err := s.store.AddMeasurement(m); err != nil {
		s.logger.Error("add measurement failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "add measurement failed"})
		return
	}
	c.JSON(http.StatusCreated, m)
}

// handleAddPhoto 上传一张树木照片。
//
// multipart 表单：photo（文件，必填）、caption、photo_type。
//
// POST /api/growth/:treeId/photos
func (s *Server) handleAddPhoto(c *gin.Context) {
	tree, ok := s.ownedTree(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	photoType := c.PostForm("photo_type")
	if photoType == "" {
		photoType = model.PhotoProgress
	}
	if !model.ValidPhotoType(photoType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid photo_type"})
		return
	}

	name, err := s.photos.Save(fh)
	if err != nil {
		s.logger.Error("save photo failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save photo failed"})
		return
	}

	photo := &model.TreePhoto{
		TreeID:    tree.ID,
		PhotoURL:  "/tree_photos/" + name,
		Caption:   c.PostForm("caption"),
		PhotoType: photoType,
	}
	if err := s.store.AddPhoto(photo); err != nil {
		// 行插入失败则回收刚写入的文件
		_ = s.photos.Remove(name)
		s.logger.Error("add photo failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "add photo failed"})
		return
	}
	c.JSON(http.StatusCreated, photo)
}

// handleListPhotos 返回一棵树的照片（按拍摄时间倒序）。
//
// GET /api/growth/:treeId/photos
func (s *Server) handleListPhotos(c *gin.Context) {
	tree, ok := s.ownedTree(c)
	if !ok {
		return
	}
	photos, err := s.store.PhotosByTree(tree.ID)
	if err != nil {
		s.logger.Error("list photos failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list photos failed"})
		return
	}
	c.JSON(http.StatusOK, photos)
}

// handleDeletePhoto 删除一张照片（记录 + 文件）。
//
// 照片必须属于路由中的树，否则 404。文件删除失败只记日志。
//
// DELETE /api/growth/:treeId/photos/:photoId
func (s *Server) handleDeletePhoto(c *gin.Context) {
	tree, ok := s.ownedTree(c)
	if !ok {
		return
	}

	photoID, err := strconv.ParseUint(c.Param("photoId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid photo id"})
		return
	}
	photo, err := s.store.PhotoByID(uint(photoID))
	if err != nil || photo.TreeID != tree.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Photo not found"})
		return
	}

	if err := s.store.DeletePhoto(photo.ID); err != nil {
		s.logger.Error("delete photo failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete photo failed"})
		return
	}
	if err := s.photos.Remove(photoBlobName(photo.PhotoURL)); err != nil {
		s.logger.Warn("remove photo file failed", slog.String("url", photo.PhotoURL), slog.String("error", err.Error()))
	}
	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted successfully"})
}

// handleUpdateHealth 更新一棵树的健康状态。
//
// PUT /api/growth/:treeId/health
func (s *Server) handleUpdateHealth(c *gin.Context) {
	tree, ok := s.ownedTree(c)
	if !ok {
		return
	}

	var req updateHealthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.ValidHealthStatus(req.HealthStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid health_status"})
		return
	}

	updated, err := s.store.UpdateTree(tree.ID, map[string]interface{}{"health_status": req.HealthStatus})
	if err != nil {
		s.logger.Error("update health failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update health failed"})
		return
	}
	c.JSON(http.StatusOK, updated)
}
