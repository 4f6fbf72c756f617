// Package models defines the core domain records for FairShare.
//
// The two persisted record kinds are:
//   - Group: a named set of member display names sharing transactions
//   - Transaction: a kind-tagged record, either an expense (one member paid
//     a total on behalf of some split of the group) or a settlement (a direct
//     repayment between two members)
//
// Member identity is a display string scoped to a group; there is no
// cross-group user directory. User records exist only to attribute writes to
// an authenticated actor.
//
// Transactions are immutable after creation except for the Deleted flag
// (soft delete). Balances are never stored: they are derived on demand from
// the live transaction log by the ledger package.
package models
