package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/junaydArshad/Green-Campus/internal/store"

	"github.com/gin-gonic/gin"
)

// mapTree 是地图标注用的精简树视图。
type mapTree struct {
	ID           uint    `json:"id"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	SpeciesID    uint    `json:"species_id"`
	SpeciesName  string  `json:"species_name"`
	HealthStatus string  `json:"health_status"`
	PlantedDate  string  `json:"planted_date"`
}

func toMapTree(t store.TreeWithSpecies) mapTree {
	return mapTree{
		ID:           t.ID,
		Latitude:     t.Latitude,
		Longitude:    t.Longitude,
		SpeciesID:    t.SpeciesID,
		SpeciesName:  t.SpeciesName,
		HealthStatus: t.HealthStatus,
		PlantedDate:  t.PlantedDate.Format("2006-01-02"),
	}
}

// handleMapTrees 返回当前用户所有树的地图标注。
//
// 可选过滤：health_status、species_id、year（种植年份）。
//
// GET /api/map/trees
func (s *Server) handleMapTrees(c *gin.Context) {
	trees, err := s.store.TreesByUser(getUserID(c))
	if err != nil {
		s.logger.Error("load map trees failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load map trees failed"})
		return
	}

	healthFilter := c.Query("health_status")
	var speciesFilter uint64
	if v := c.Query("species_id"); v != "" {
		speciesFilter, err = strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid species_id"})
			return
		}
	}
	var yearFilter int
	if v := c.Query("year"); v != "" {
		yearFilter, err = strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
	}

	out := []mapTree{}
	for _, t := range trees {
		if healthFilter != "" && t.HealthStatus != healthFilter {
			continue
		}
		if speciesFilter != 0 && uint64(t.SpeciesID) != speciesFilter {
			continue
		}
		if yearFilter != 0 && t.PlantedDate.Year() != yearFilter {
			continue
		}
		out = append(out, toMapTree(t))
	}
	c.JSON(http.StatusOK, out)
}

// handleMapTreesArea 返回落在给定经纬度包围盒内的树。
//
// north/south/east/west 四个查询参数都必填。
//
// GET /api/map/trees/area
func (s *Server) handleMapTreesArea(c *gin.Context) {
	bounds := [4]float64{}
	for i, key := range []string{"north", "south", "east", "west"} {
		v := c.Query(key)
		if v == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + key})
			return
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
			return
		}
		bounds[i] = f
	}
	north, south, east, west := bounds[0], bounds[1], bounds[2], bounds[3]
	if south > north || west > east {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bounds"})
		return
	}

	trees, err := s.store.TreesByUser(getUserID(c))
	if err != nil {
		s.logger.Error("load map trees failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load map trees failed"})
		return
	}

	out := []mapTree{}
	for _, t := range trees {
		if t.Latitude < south || t.Latitude > north || t.Longitude < west || t.Longitude > east {
			continue
		}
		out = append(out, toMapTree(t))
	}
	c.JSON(http.StatusOK, out)
}
