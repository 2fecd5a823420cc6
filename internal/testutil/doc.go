// Package testutil contains builders and memory provider doubles shared by
// the dispatcher and handler tests. Not for production use.
package testutil
