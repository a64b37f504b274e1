// Package dispatch implements the central dispatcher: worker registry,
// point-to-point message routing in a star topology, and the workflow engine
// that sequences multi-worker tasks. Results route back through the
// dispatcher and are matched to awaiting workflow steps by correlation
// token, bounded by a per-step timeout.
package dispatch
