// Package routes registers the JSON API surface: health and version. The
// root greeting route is plain text and lives outside the OpenAPI surface.
package routes

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	appmiddleware "github.com/devgrid/greeting-service/internal/middleware"
	"github.com/devgrid/greeting-service/internal/version"
)

// Register wires all API routes into the provided router.
func Register(api huma.API) {
	registerHealth(api)
	registerVersion(api)
}

// HealthData models the success payload for the health route.
type HealthData struct {
	Message string `json:"message" doc:"Health status message" example:"healthy"`
}

// HealthOutput is the response wrapper for the health endpoint.
type HealthOutput struct {
	Body HealthData
}

func registerHealth(api huma.API) {
	huma.Get(api, "/health", func(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
		appmiddleware.LogInfo(ctx, "health check", zap.String("path", "/health"))
		return &HealthOutput{Body: HealthData{Message: "healthy"}}, nil
	})
}

// VersionData models the build metadata payload.
type VersionData struct {
	Version string `json:"version" doc:"Semantic version or dev" example:"1.2.3"`
	Commit  string `json:"commit" doc:"VCS commit hash" example:"abc1234"`
	Date    string `json:"date,omitempty" doc:"Build timestamp" example:"2026-01-15T10:30:00Z"`
}

// VersionOutput is the response wrapper for the version endpoint.
type VersionOutput struct {
	Body VersionData
}

func registerVersion(api huma.API) {
	huma.Get(api, "/version", func(ctx context.Context, _ *struct{}) (*VersionOutput, error) {
		return &VersionOutput{Body: VersionData{
			Version: version.Version,
			Commit:  version.Commit,
			Date:    version.Date,
		}}, nil
	})
}
