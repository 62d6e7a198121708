package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_AllowWithinWindow(t *testing.T) {
	l := New(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("hit %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("fourth hit in the window should be blocked")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("other keys keep their own window")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Minute)
	l.Allow("teacher@school.test")
	if l.Allow("teacher@school.test") {
		t.Fatal("second hit should be blocked")
	}
	l.Reset("teacher@school.test")
	if !l.Allow("teacher@school.test") {
		t.Error("reset should open a fresh window")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("POST", "/login", nil)
	r.RemoteAddr = "203.0.113.9:51431"
	if got := ClientIP(r); got != "203.0.113.9" {
		t.Errorf("RemoteAddr: got %q", got)
	}

	r.Header.Set("X-Real-IP", "198.51.100.7")
	if got := ClientIP(r); got != "198.51.100.7" {
		t.Errorf("X-Real-IP: got %q", got)
	}

	r.Header.Set("X-Forwarded-For", "192.0.2.1, 198.51.100.7")
	if got := ClientIP(r); got != "192.0.2.1" {
		t.Errorf("X-Forwarded-For: got %q", got)
	}
}

func TestLoginLimiter_EmailWindowSpansIPs(t *testing.T) {
	ll := &LoginLimiter{
		byIP:    New(100, time.Minute),
		byEmail: New(2, time.Minute),
	}

	for i, ip := range []string{"192.0.2.1", "192.0.2.2"} {
		r := httptest.NewRequest("POST", "/login", nil)
		r.Header.Set("X-Real-IP", ip)
		if ok, _ := ll.Check(r, "Target@School.test"); !ok {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	// Third attempt at the same account, from yet another address.
	// The email key is folded, so case and whitespace do not evade it.
	r := httptest.NewRequest("POST", "/login", nil)
	r.Header.Set("X-Real-IP", "192.0.2.3")
	ok, msg := ll.Check(r, " target@school.test ")
	if ok {
		t.Fatal("third attempt at the same account should be blocked")
	}
	if msg == "" {
		t.Error("blocked attempts should carry a user-facing message")
	}

	ll.ResetEmail("target@school.test")
	if ok, _ := ll.Check(r, "target@school.test"); !ok {
		t.Error("reset after sign-in should open a fresh window")
	}
}
