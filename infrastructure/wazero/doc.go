// Package wazero builds the host module that sandboxed verification guests
// import (ksig_host by default).
//
// The module always exports log_message, which takes a packed i64
// pointer+length of an entities.LogMessageWire and replays the record through
// the host's logger. Extra functions can be added with WithCustomHandler.
//
// # Basic Usage
//
//	rt := wazero.NewRuntime(ctx)
//	err := ksigwazero.RegisterHostModule(ctx, rt,
//	    ksigwazero.WithLogger(logger),
//	)
package wazero
