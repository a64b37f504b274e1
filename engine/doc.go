// Package engine implements the budget-governed request engine: every model
// call is admitted against the budget tracker before any provider traffic and
// recorded after completion. It also provides the structured-output mode that
// wraps a request with a schema directive and decodes the reply while
// tolerating code fences and surrounding prose.
package engine
