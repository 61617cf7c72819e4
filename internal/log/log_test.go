package log

import "testing"

func TestLReturnsLogger(t *testing.T) {
	if L() == nil {
		t.Fatal("L() returned nil")
	}
	// Init is once-only; a second call must not replace the logger.
	first := L()
	Init("debug")
	if L() != first {
		t.Error("Init replaced the logger after first use")
	}
}

func TestComponent(t *testing.T) {
	server := Component("server")
	animator := Component("animator")
	if server == nil || animator == nil {
		t.Fatal("Component returned nil logger")
	}
	if server == animator {
		t.Error("Component loggers should be distinct instances")
	}
}
