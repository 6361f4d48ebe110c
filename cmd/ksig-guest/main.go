//go:build wasip1

// Command ksig-guest is the sandboxed build of the bridge. Build it as a
// wasip1 reactor:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o ksig-guest.wasm ./cmd/ksig-guest
//
// The host mounts the artifact directory and names it in KSIG_ARTIFACT_DIR.
package main

import (
	"log/slog"
	"os"

	"github.com/ZKNoxHQ/ksig-bridge/adapters/sandbox"
	"github.com/ZKNoxHQ/ksig-bridge/application/verifier"
	"github.com/ZKNoxHQ/ksig-bridge/config"
	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	"github.com/ZKNoxHQ/ksig-bridge/engine/gnarkengine"
)

// defaultArtifactDir matches the mount point used by host.Runner.
const defaultArtifactDir = "/artifacts"

// Reactor modules never run main, so the exports are wired at init.
func init() {
	dir := os.Getenv(config.EnvArtifactDir)
	if dir == "" {
		dir = defaultArtifactDir
	}
	set := entities.DefaultArtifactSet(dir)
	logger := slog.Default()

	engine := gnarkengine.New(set, gnarkengine.WithLogger(logger))
	v, err := verifier.New(engine,
		verifier.WithArtifacts(set),
		verifier.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to create verifier", "error", err)
		return
	}
	sandbox.Install(v)
}

func main() {}
