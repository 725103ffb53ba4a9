// Package test contains expectation helpers shared by the package tests.
package test

import (
	"math"
	"testing"
)

// ExpectEquality fails the test if value is not equal to expected.
func ExpectEquality[T comparable](t *testing.T, value T, expected T) bool {
	t.Helper()
	if value != expected {
		t.Errorf("equality test of type %T failed: '%v' does not equal '%v'", value, value, expected)
		return false
	}
	return true
}

// ExpectApproximate fails the test if value is further than tolerance from
// expected.
func ExpectApproximate(t *testing.T, value float64, expected float64, tolerance float64) bool {
	t.Helper()
	if math.Abs(value-expected) > tolerance {
		t.Errorf("approximation test failed: '%v' is not within %v of '%v'", value, tolerance, expected)
		return false
	}
	return true
}

// ExpectSuccess tests argument v for a success condition suitable for its
// type. Currently supported types:
//
//	bool -> bool == true
//	error -> error == nil
//
// If v is nil then the test succeeds.
func ExpectSuccess(t *testing.T, v interface{}) bool {
	t.Helper()

	switch v := v.(type) {
	case bool:
		if !v {
			t.Errorf("expected success (bool)")
			return false
		}
	case error:
		if v != nil {
			t.Errorf("expected success (error: %v)", v)
			return false
		}
	case nil:
		return true
	default:
		t.Fatalf("unsupported type (%T) for expectation testing", v)
		return false
	}

	return true
}

// ExpectFailure tests argument v for a failure condition suitable for its
// type. Currently supported types:
//
//	bool -> bool == false
//	error -> error != nil
//
// If v is nil then the test fails.
func ExpectFailure(t *testing.T, v interface{}) bool {
	t.Helper()

	switch v := v.(type) {
	case bool:
		if v {
			t.Errorf("expected failure (bool)")
			return false
		}
	case error:
		if v == nil {
			t.Errorf("expected failure (error)")
			return false
		}
	case nil:
		t.Errorf("expected failure (nil)")
		return false
	default:
		t.Fatalf("unsupported type (%T) for expectation testing", v)
		return false
	}

	return true
}
