// Package payment implements the payment aggregate: the one-to-one money
// record of an accepted order, its restaurant share / delivery fee split,
// and its settlement status.
package payment
