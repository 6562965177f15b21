package assert

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

// Equal verifies equality of two objects.
func Equal[T any](t *testing.T, a, b T) {
	if !reflect.DeepEqual(a, b) {
		t.Helper()
		t.Fatalf("%v != %v", a, b)
	}
}

// NotEqual verifies objects are not equal.
func NotEqual[T any](t *testing.T, a T, b T) {
	if reflect.DeepEqual(a, b) {
		t.Helper()
		t.Fatalf("%v == %v", a, b)
	}
}

// True fails the test unless cond holds.
func True(t *testing.T, cond bool, msg string) {
	if !cond {
		t.Helper()
		t.Fatalf("assertion failed: %s", msg)
	}
}

// InDelta checks that two floats are within delta of each other.
func InDelta(t *testing.T, a, b, delta float64) {
	if math.IsNaN(a) || math.IsNaN(b) || math.Abs(a-b) > delta {
		t.Helper()
		t.Fatalf("%v not within %v of %v", a, delta, b)
	}
}

// NoError fails the test when err is non-nil.
func NoError(t *testing.T, err error) {
	if err != nil {
		t.Helper()
		t.Fatalf("unexpected error: %v", err)
	}
}

// ErrorContains checks whether the given error contains the specified string.
func ErrorContains(t *testing.T, err error, str string) {
	if err == nil {
		t.Helper()
		t.Fatalf("Error is nil")
	} else if !strings.Contains(err.Error(), str) {
		t.Helper()
		t.Fatalf("Error does not contain string: %s", str)
	}
}
