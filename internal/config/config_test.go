package config

import "testing"

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CAMTEST_STR", "hello")
	t.Setenv("CAMTEST_INT", "42")
	t.Setenv("CAMTEST_FLOAT", "12.5")
	t.Setenv("CAMTEST_BOOL", "true")
	t.Setenv("CAMTEST_BAD", "nope")

	if got := String("CAMTEST_STR", "def"); got != "hello" {
		t.Errorf("String = %q, want hello", got)
	}
	if got := String("CAMTEST_UNSET", "def"); got != "def" {
		t.Errorf("String fallback = %q, want def", got)
	}
	if got := Int("CAMTEST_INT", 1); got != 42 {
		t.Errorf("Int = %d, want 42", got)
	}
	if got := Int("CAMTEST_BAD", 7); got != 7 {
		t.Errorf("Int with bad value = %d, want fallback 7", got)
	}
	if got := Float("CAMTEST_FLOAT", 1); got != 12.5 {
		t.Errorf("Float = %g, want 12.5", got)
	}
	if got := Bool("CAMTEST_BOOL", false); !got {
		t.Error("Bool = false, want true")
	}
	if got := Bool("CAMTEST_BAD", true); !got {
		t.Error("Bool with bad value should keep fallback")
	}
}
