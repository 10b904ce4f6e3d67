package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/junaydArshad/Green-Campus/internal/store"

	"github.com/gin-gonic/gin"
)

// handleListSpecies 返回全部树种，按名称排序。
//
// GET /api/species
func (s *Server) handleListSpecies(c *gin.Context) {
	species, err := s.store.Species()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load species failed"})
		return
	}
	c.JSON(http.StatusOK, species)
}

// GET /api/species/:id
func (s *Server) handleGetSpecies(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid species id"})
		return
	}
	sp, err := s.store.SpeciesByID(uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Species not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load species failed"})
		return
	}
	c.JSON(http.StatusOK, sp)
}
