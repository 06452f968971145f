// Package order implements the order ledger aggregate: the lifecycle state
// machine of a marketplace order, its frozen pricing, its append-only
// transition log, and the domain events that drive delivery assignment and
// payment settlement.
//
// The transition table in status.go is the single authority on which
// lifecycle edges exist and which actor roles may take them. The Order
// aggregate enforces the table plus the ownership rules (the customer who
// placed the order, the owner of that restaurant, the assigned agent) and
// records every applied transition.
package order
