// Package aggregates defines domain-facing aggregate contracts and the error
// taxonomy shared by every write boundary.
//
// These contracts avoid persistence/transport implementation details and
// represent semantic write boundaries where invariants must be enforced atomically.
package aggregates
