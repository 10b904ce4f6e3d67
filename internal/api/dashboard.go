package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/junaydArshad/Green-Campus/internal/model"
	"github.com/junaydArshad/Green-Campus/internal/store"

	"github.com/gin-gonic/gin"
)

// carbonOffsetLbs 估算一棵树迄今的固碳量（磅）。
//
// 按整年龄计：每满一年计 48 lbs，当年种下的树计 0。
func carbonOffsetLbs(plantedDate time.Time, now time.Time) int {
	years := now.Year() - plantedDate.Year()
	if years < 0 {
		return 0
	}
	return years * 48
}

// handleDashboardOverview 返回用户首页概览。
//
// GET /api/dashboard/overview
func (s *Server) handleDashboardOverview(c *gin.Context) {
	trees, err := s.store.TreesByUser(getUserID(c))
	if err != nil {
		s.logger.Error("load dashboard failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load dashboard failed"})
		return
	}

	now := time.Now()
	var healthy, needsCare, struggling, carbon int
	for _, t := range trees {
		switch t.HealthStatus {
		case model.HealthHealthy:
			healthy++
		case model.HealthNeedsCare:
			needsCare++
		case model.HealthStruggling:
			struggling++
		}
		carbon += carbonOffsetLbs(t.PlantedDate, now)
	}

	// trees 已按种植日期倒序排列
	recent := trees
	if len(recent) > 5 {
		recent = recent[:5]
	}
	if recent == nil {
		recent = []store.TreeWithSpecies{}
	}

	c.JSON(http.StatusOK, gin.H{
		"totalTrees":        len(trees),
		"healthyTrees":      healthy,
		"needsCareTrees":    needsCare,
		"strugglingTrees":   struggling,
		"totalCarbonOffset": carbon,
		"recentTrees":       recent,
	})
}

// handleDashboardStatistics 返回用户的树种分布与高度统计。
//
// 平均高度只统计有测量值的树（current_height_cm > 0）。
//
// GET /api/dashboard/statistics
func (s *Server) handleDashboardStatistics(c *gin.Context) {
	trees, err := s.store.TreesByUser(getUserID(c))
	if err != nil {
		s.logger.Error("load statistics failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load statistics failed"})
		return
	}

	distribution := map[string]int{}
	var sumHeight, maxHeight float64
	var measured int
	for _, t := range trees {
		distribution[t.SpeciesName]++
		if t.CurrentHeightCm > 0 {
			sumHeight += t.CurrentHeightCm
			measured++
		}
		if t.CurrentHeightCm > maxHeight {
			maxHeight = t.CurrentHeightCm
		}
	}

	var avgHeight float64
	if measured > 0 {
		avgHeight = sumHeight / float64(measured)
	}

	c.JSON(http.StatusOK, gin.H{
		"totalTrees":          len(trees),
		"speciesDistribution": distribution,
		"averageHeight":       avgHeight,
		"maxHeight":           maxHeight,
	})
}
