// Package core defines the contract shared by every participant in the hive:
// the message envelope, the worker lifecycle state machine, role and counter
// semantics, and the closed set of task and result payload types exchanged
// between the dispatcher and its workers.
package core
