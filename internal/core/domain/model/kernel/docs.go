// Package kernel contains the shared value objects of the domain model:
// identifiers and monetary amounts. Both are immutable, validated at
// construction, and safe for concurrent use.
package kernel
