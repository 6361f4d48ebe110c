// Package entities provides the core domain types of the bridge.
// These types serve as in-memory values for native callers and as the JSON
// wire shape for the text-based adapters.
package entities
