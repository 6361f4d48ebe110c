//go:build !cgo || !ksignative

package native

import (
	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	"github.com/ZKNoxHQ/ksig-bridge/domain/ports"
)

// Engine is a placeholder for builds without the native binding.
type Engine struct{}

var _ ports.Engine = (*Engine)(nil)

// New always fails with ErrUnavailable.
func New() (*Engine, error) {
	return nil, ErrUnavailable
}

// Verify implements ports.Engine and never succeeds.
func (e *Engine) Verify() entities.ResultRecord {
	return entities.ResultRecord{}
}

// VerifyWithInputs implements ports.Engine and never succeeds.
func (e *Engine) VerifyWithInputs(entities.InputRecord) entities.ResultRecord {
	return entities.ResultRecord{}
}

// Release implements ports.Engine.
func (e *Engine) Release(entities.ResultRecord) {}
