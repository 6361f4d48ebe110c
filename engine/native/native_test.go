//go:build !cgo || !ksignative

package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Unavailable(t *testing.T) {
	e, err := New()
	assert.Nil(t, e)
	assert.ErrorIs(t, err, ErrUnavailable)
}
