package models

import "testing"

func TestLimitersAllow(t *testing.T) {
	l := NewLimiters(2)
	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("burst should allow two events")
	}
	if l.Allow("a") {
		t.Error("third event within a minute must be limited")
	}
	if !l.Allow("b") {
		t.Error("keys must not share a bucket")
	}

	var off *Limiters
	if !off.Allow("a") || !NewLimiters(0).Allow("a") {
		t.Error("disabled limiter must always allow")
	}
}
