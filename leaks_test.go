package main_test

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// VerifyTestMain runs the suite and exits with its status.
	goleak.VerifyTestMain(m, goleak.IgnoreCurrent())
}
