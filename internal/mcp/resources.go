// ABOUTME: MCP resource implementations for ShapeMentor reference data.
// ABOUTME: Provides the food and exercise rate tables and the metric catalog.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/shapementor/internal/lookup"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	foodResourceURI       = "shapementor://lookup/food"
	exerciseResourceURI   = "shapementor://lookup/exercise"
	definitionResourceURI = "shapementor://metric_definitions"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         foodResourceURI,
		Name:        "Food Rates",
		Description: "Calories per gram for every known food",
		MIMEType:    "application/json",
	}, s.rateTableResource(lookup.Food, foodResourceURI))

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         exerciseResourceURI,
		Name:        "Exercise Rates",
		Description: "Calories burned per minute for every known exercise",
		MIMEType:    "application/json",
	}, s.rateTableResource(lookup.Exercise, exerciseResourceURI))

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         definitionResourceURI,
		Name:        "Metric Catalog",
		Description: "Body metric indexes with their names and units",
		MIMEType:    "application/json",
	}, s.handleDefinitionsResource)
}

type rateEntry struct {
	Key  string  `json:"key"`
	Rate float64 `json:"rate"`
}

func (s *Server) rateTableResource(category lookup.Category, uri string) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		rates := s.tracker.Rates()
		keys, err := rates.ListKeys(category)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s keys: %w", category, err)
		}

		entries := make([]rateEntry, 0, len(keys))
		for _, k := range keys {
			rate, ok, err := rates.GetRate(category, k)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s rate %q: %w", category, k, err)
			}
			if ok {
				entries = append(entries, rateEntry{Key: k, Rate: rate})
			}
		}

		unit := "kcal/gram"
		if category == lookup.Exercise {
			unit = "kcal/minute"
		}
		return jsonResource(uri, map[string]any{
			"category": category,
			"unit":     unit,
			"rates":    entries,
		})
	}
}

func (s *Server) handleDefinitionsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	defs, err := s.tracker.ListMetricDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list metric definitions: %w", err)
	}
	return jsonResource(definitionResourceURI, map[string]any{"metric_definitions": defs})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
