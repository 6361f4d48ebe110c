//go:build !(cgo && ksignative)

package ksig_test

import (
	"testing"

	ksig "github.com/ZKNoxHQ/ksig-bridge"
	"github.com/ZKNoxHQ/ksig-bridge/config"
	"github.com/ZKNoxHQ/ksig-bridge/engine/native"
	"github.com/stretchr/testify/assert"
)

func TestOpen_NativeUnavailable(t *testing.T) {
	_, err := ksig.Open(config.Default())
	assert.ErrorIs(t, err, native.ErrUnavailable)
}
