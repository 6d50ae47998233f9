// Package preflight verifies the runtime environment before pipeline
// work starts: directory access, external binaries, and forced-alignment
// service reachability.
package preflight
