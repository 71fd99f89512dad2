package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	orig := Logf
	defer func() { Logf = orig }()

	var got []string
	SetLogger(func(format string, v ...interface{}) {
		got = append(got, fmt.Sprintf(format, v...))
	})
	Logf("wrote %d points", 100)
	if len(got) != 1 || got[0] != "wrote 100 points" {
		t.Fatalf("captured %v", got)
	}

	SetLogger(nil)
	Logf("dropped")
	if len(got) != 1 {
		t.Errorf("no-op logger should not capture, got %v", got)
	}
}
