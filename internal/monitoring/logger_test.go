package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) { called = true })
	Logf("probe")
	if !called {
		t.Error("custom logger was not called")
	}

	// nil installs a no-op logger rather than panicking
	SetLogger(nil)
	Logf("probe")
	if Logf == nil {
		t.Error("Logf should never be nil")
	}
}

func TestLogfDefault(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}
}
