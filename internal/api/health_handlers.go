package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// ComponentHealth reports the health of a single dependency.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Check latency"`
	Message string `json:"message,omitempty" doc:"Failure detail"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Version    string                     `json:"version" doc:"Server version"`
	Components map[string]ComponentHealth `json:"components" doc:"Per-component health"`
}

// HealthOutput wraps the health response body.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/api/v1/health",
		Summary:     "Health check",
		Description: "Reports server health including database and search index status.",
		Tags:        []string{"System"},
	}, s.handleHealth)
}

func (s *Server) handleHealth(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := make(map[string]ComponentHealth)
	status := "healthy"

	start := time.Now()
	if _, err := s.store.CountBooks(ctx); err != nil {
		components["database"] = ComponentHealth{
			Status:  "unhealthy",
			Message: err.Error(),
		}
		status = "unhealthy"
	} else {
		components["database"] = ComponentHealth{
			Status:  "healthy",
			Latency: formatLatency(time.Since(start)),
		}
	}

	start = time.Now()
	if _, err := s.search.DocumentCount(); err != nil {
		components["search"] = ComponentHealth{
			Status:  "unhealthy",
			Message: err.Error(),
		}
		// Listing still works without the index, so only degrade.
		if status == "healthy" {
			status = "degraded"
		}
	} else {
		components["search"] = ComponentHealth{
			Status:  "healthy",
			Latency: formatLatency(time.Since(start)),
		}
	}

	return &HealthOutput{Body: HealthResponse{
		Status:     status,
		Version:    Version,
		Components: components,
	}}, nil
}

func formatLatency(d time.Duration) string {
	return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000.0)
}
