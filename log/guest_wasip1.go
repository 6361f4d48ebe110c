//go:build wasip1

package log

import (
	"log/slog"

	"github.com/ZKNoxHQ/ksig-bridge/internal/abi"
)

// hostLogMessage is provided by the host's ksig_host module.
//
//go:wasmimport ksig_host log_message
//nolint:revive // snake_case matches the import name
func hostLogMessage(packed uint64)

func sendToHost(payload []byte) {
	packed := abi.PtrFromBytes(payload)
	hostLogMessage(packed)
	abi.DeallocatePacked(packed)
}

func init() {
	slog.SetDefault(slog.New(NewGuestHandler(sendToHost, WithGuestLevel(slog.LevelDebug))))
}
