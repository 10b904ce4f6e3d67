package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/junaydArshad/Green-Campus/internal/model"
	"github.com/junaydArshad/Green-Campus/internal/pkg/metrics"
	"github.com/junaydArshad/Green-Campus/internal/store"

	"github.com/gin-gonic/gin"
)

type createTreeRequest struct {
	SpeciesID       uint     `json:"species_id" binding:"required"`
	Latitude        *float64 `json:"latitude" binding:"required"`
	Longitude       *float64 `json:"longitude" binding:"required"`
	PlantedDate     string   `json:"planted_date" binding:"required"`
	CurrentHeightCm *float64 `json:"current_height_cm"`
	HealthStatus    string   `json:"health_status"`
	Notes           string   `json:"notes"`
}

type updateTreeRequest struct {
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	PlantedDate  *string  `json:"planted_date"`
	HealthStatus *string  `json:"health_status"`
	Notes        *string  `json:"notes"`
}

// handleListTrees 返回当前用户的全部树（带树种信息，按种植日期倒序）。
//
// GET /api/trees
func (s *Server) handleListTrees(c *gin.Context) {
	trees, err := s.store.TreesByUser(getUserID(c))
	if err != nil {
		s.logger.Error("list trees failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list trees failed"})
		return
	}
	c.JSON(http.StatusOK, trees)
}

// handleGetTree 返回单棵树（仅限本人）。
//
// GET /api/trees/:id
func (s *Server) handleGetTree(c *gin.Context) {
	tree, ok := s.ownedTree(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, tree)
}

// handleCreateTree 种下一棵新树。
//
// 纬度/经度用指针字段绑定，0 也是合法坐标。
//
// POST /api/trees
func (s *Server) handleCreateTree(c *gin.Context) {
	var req createTreeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if *req.Latitude < -90 || *req.Latitude > 90 || *req.Longitude < -180 || *req.Longitude > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
		return
	}

	planted, err := parseDate(req.PlantedDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid planted_date, expected YYYY-MM-DD"})
		return
	}

	if _, err := s.store.SpeciesByID(req.SpeciesID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown species"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	tree := &model.Tree{
		UserID:       getUserID(c),
		SpeciesID:    req.SpeciesID,
		Latitude:     *req.Latitude,
		Longitude:    *req.Longitude,
		PlantedDate:  planted,
		HealthStatus: model.HealthHealthy,
		Notes:        req.Notes,
	}
	if req.CurrentHeightCm != nil {
		if *req.CurrentHeightCm < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid current_height_cm"})
			return
		}
		tree.CurrentHeightCm = *req.CurrentHeightCm
	}
	if req.HealthStatus != "" {
		if !model.ValidHealthStatus(req.HealthStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid health_status"})
			return
		}
		tree.HealthStatus = req.HealthStatus
	}

	if err := s.store.CreateTree(tree); err != nil {
		s.logger.Error("create tree failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create tree failed"})
		return
	}

	metrics.TreesPlantedTotal.Inc()
	s.logger.Info("tree planted",
		slog.Uint64("tree_id", uint64(tree.ID)),
		slog.Uint64("user_id", uint64(tree.UserID)),
		slog.Uint64("species_id", uint64(tree.SpeciesID)))
	c.JSON(http.StatusCreated, tree)
}

// handleUpdateTree 更新一棵树（仅限本人，只更新提供的字段）。
//
// PUT /api/trees/:id
func (s *Server) handleUpdateTree(c *gin.Context) {
	tree, ok := s.ownedTree(c)
	if !ok {
		return
	}

	var req updateTreeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Latitude != nil {
		if *req.Latitude < -90 || *req.Latitude > 90 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
			return
		}
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		if *req.Longitude < -180 || *req.Longitude > 180 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
			return
		}
		updates["longitude"] = *req.Longitude
	}
	if req.PlantedDate != nil {
		planted, err := parseDate(*req.PlantedDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid planted_date, expected YYYY-MM-DD"})
			return
		}
		updates["planted_date"] = planted
	}
	if req.HealthStatus != nil {
		if !model.ValidHealthStatus(*req.HealthStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid health_status"})
			return
		}
		updates["health_status"] = *req.HealthStatus
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	updated, err := s.store.UpdateTree(tree.ID, updates)
	if err != nil {
		s.logger.Error("update tree failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update tree failed"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// handleDeleteTree 删除一棵树（仅限本人）。
//
// 测量/养护/照片行由外键级联删除；照片文件在删除前收集并尽力清理。
//
// DELETE /api/trees/:id
func (s *Server) handleDeleteTree(c *gin.Context) {
	tree, ok := s.ownedTree(c)
	if !ok {
		return
	}

	photos, _ := s.store.PhotosByTree(tree.ID)

	if err := s.store.DeleteTree(tree.ID); err != nil {
		s.logger.Error("delete tree failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete tree failed"})
		return
	}

	for _, p := range photos {
		if err := s.photos.Remove(photoBlobName(p.PhotoURL)); err != nil {
			s.logger.Warn("remove photo file failed", slog.String("url", p.PhotoURL), slog.String("error", err.Error()))
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tree deleted successfully"})
}

// handleAdminListTrees 管理端：列出全站所有树（带主人和树种）。
//
// GET /api/trees/all
func (s *Server) handleAdminListTrees(c *gin.Context) {
	trees, err := s.store.AllTreesWithOwner()
	if err != nil {
		s.logger.Error("list all trees failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list trees failed"})
		return
	}
	if len(trees) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No trees found"})
		return
	}
	c.JSON(http.StatusOK, trees)
}
