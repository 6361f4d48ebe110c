// Package marshal converts proof requests into fixed-layout input records and
// engine result records back into owned outcomes.
//
// Input buffers belong to the caller and stay pinned for one boundary call.
// Result references belong to the engine; a Borrowed handle copies them and
// hands the record back to the engine exactly once.
package marshal
