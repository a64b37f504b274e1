// Package worker provides the shared worker base (lifecycle, counters,
// outbound dispatch) and the two stock workers: the shopper behavior analyst
// and the ad campaign strategist. Concrete workers embed Base and register a
// payload-typed handler; unrecognized payloads produce no response.
package worker
