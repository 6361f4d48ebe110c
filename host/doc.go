// Package host runs a sandboxed verification guest under wazero.
//
// A Runner instantiates one guest module, mounts the artifact directory
// read-only inside it, and calls the guest's verification exports with text
// in and text out. The guest owns the response buffers; the Runner copies
// each response and hands the buffer back through the guest's deallocate
// export.
package host
