package verifier

import (
	"log/slog"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	"github.com/ZKNoxHQ/ksig-bridge/domain/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Verifier.
type Option func(*Verifier)

// WithArtifacts sets the artifact set checked before each call.
// The default is entities.DefaultArtifactSet(".").
func WithArtifacts(set entities.ArtifactSet) Option {
	return func(v *Verifier) {
		v.artifacts = set
	}
}

// WithInspector replaces the host-filesystem artifact inspector.
func WithInspector(inspector ports.ArtifactInspector) Option {
	return func(v *Verifier) {
		v.inspector = inspector
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// WithMetrics registers boundary metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(v *Verifier) {
		v.registerer = reg
	}
}
