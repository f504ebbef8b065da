// ABOUTME: HTTP handlers for the calorie rate tables and the metric catalog.
// ABOUTME: Rates are read and upserted per category; unknown keys answer 404.
package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/shapementor/internal/lookup"
	"github.com/harperreed/shapementor/internal/models"
	"github.com/harperreed/shapementor/internal/storage"
)

func (s *Server) listLookupKeys(c *gin.Context) {
	category, err := lookup.ParseCategory(c.Param("category"))
	if err != nil {
		s.fail(c, err)
		return
	}
	keys, err := s.tracker.Rates().ListKeys(category)
	if err != nil {
		s.fail(c, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "keys": keys})
}

func (s *Server) getLookupRate(c *gin.Context) {
	category, err := lookup.ParseCategory(c.Param("category"))
	if err != nil {
		s.fail(c, err)
		return
	}
	key := c.Param("key")
	rate, ok, err := s.tracker.Rates().GetRate(category, key)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !ok {
		s.fail(c, fmt.Errorf("%s key %q: %w", category, key, storage.ErrNotFound))
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "key": key, "rate": rate})
}

func (s *Server) upsertLookupRate(c *gin.Context) {
	category, err := lookup.ParseCategory(c.Param("category"))
	if err != nil {
		s.fail(c, err)
		return
	}
	var body struct {
		Rate *float64 `json:"rate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, badRequest("body", err))
		return
	}
	key := c.Param("key")
	if err := s.tracker.UpsertRate(category, key, *body.Rate); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "key": key, "rate": *body.Rate})
}

func (s *Server) listMetricDefinitions(c *gin.Context) {
	defs, err := s.tracker.ListMetricDefinitions(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if defs == nil {
		defs = []*models.MetricDefinition{}
	}
	c.JSON(http.StatusOK, gin.H{"metric_definitions": defs})
}

func (s *Server) upsertMetricDefinition(c *gin.Context) {
	var body struct {
		Name string `json:"metric_name" binding:"required"`
		Unit string `json:"metric_unit"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, badRequest("body", err))
		return
	}
	def := &models.MetricDefinition{Index: c.Param("index"), Name: body.Name, Unit: body.Unit}
	if err := s.tracker.UpsertMetricDefinition(c.Request.Context(), def); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, def)
}
