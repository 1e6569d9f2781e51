package client

import "github.com/taskmirror/taskmirror/internal/client/middleware"

// ControlPlaneConfig configures the local HTTP control plane.
type ControlPlaneConfig struct {
	// Addr is the listen address, expected to be loopback.
	Addr string
	// AuthToken guards the /v1 group. Empty disables auth.
	AuthToken string
}

type RouteConfig struct {
	Auth middleware.TokenAuthConfig
}
