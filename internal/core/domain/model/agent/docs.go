// Package agent implements the delivery agent aggregate: duty state
// (Available, Busy, Offline) and the exclusive binding between a busy agent
// and its single active order.
package agent
