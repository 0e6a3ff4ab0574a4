// Package ledger implements the payment-recovery ledger: the PostgreSQL
// store with its field-level invariants, the company/edition query engine,
// and the derived balance arithmetic.
package ledger
