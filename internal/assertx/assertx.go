// Package assertx holds the small assertion helpers shared by tests.
package assertx

import "testing"

// Equal fails if want != got.
func Equal[T comparable](t testing.TB, want, got T) {
	t.Helper()
	if want != got {
		t.Fatalf("want %v, got %v", want, got)
	}
}

// Status fails when the response code differs from want.
func Status(t testing.TB, want, got int) {
	t.Helper()
	if want != got {
		t.Fatalf("want HTTP status %d, got %d", want, got)
	}
}
