// Package tokens defines the token mapping entity and the contracts for tokenizing
// account numbers, resolving tokens back to account numbers and announcing new mappings.
package tokens
