// Package aggregates owns transaction boundaries for invariant-critical writes.
//
// A Manager opens one UnitOfWork per service call. The unit binds the table
// repos from internal/data/repos to a single transaction so that invariants
// spanning several aggregates commit or roll back together.
package aggregates
