package entities

import "time"

// SandboxResponse is the JSON envelope a sandboxed guest returns for every
// exported call. Exactly one of Output and Error is set.
type SandboxResponse struct {
	Error  *ErrorDetail `json:"error,omitempty"`
	Output string       `json:"output,omitempty"`
}

// LogMessageWire is the JSON wire format for a log record sent from a
// sandboxed guest to the host.
type LogMessageWire struct {
	Timestamp time.Time     `json:"timestamp"`
	Attrs     []LogAttrWire `json:"attrs,omitempty"`
	Level     string        `json:"level"`
	Message   string        `json:"message"`
}

// LogAttrWire is a single slog attribute in wire form.
type LogAttrWire struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Value string `json:"value"`
}
