package utils

import (
	"testing"
)

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if Truncate("hello world", 5) != "hello..." {
		t.Errorf("got %s", Truncate("hello world", 5))
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxLen 0 returns as-is")
	}
	if got := Truncate("ठाणे", 4); got != "ठाणे" {
		t.Errorf("four runes fit in maxLen 4, got %s", got)
	}
	if got := Truncate("Zürich supplier", 6); got != "Zürich..." {
		t.Errorf("got %s", got)
	}
}
