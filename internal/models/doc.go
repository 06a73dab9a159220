// Package models defines the core domain models for shared sheets.
//
// # Models
//
//   - Sheet: a personal or group ledger in a single currency
//   - Participant: a member of a sheet, optionally linked to a User
//   - Transaction: an EXPENSE, INCOME or TRANSFER recorded on a sheet
//   - Split: one participant's share of an EXPENSE or INCOME
//   - Settlement: a suggested transfer that settles outstanding balances
//   - User: a registered account
//
// Balances are never stored. They are derived from the full transaction set
// of a sheet on every read, see package calculator.
//
// # Design Principles
//
// 1. **Exact money**: amounts are money.Money (integer minor units), never floats
// 2. **Immutable transactions**: transactions are created and deleted, never edited
// 3. **Avoid circular references**: use ID strings instead of pointers for relationships
package models
