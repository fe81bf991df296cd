package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	r := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !r.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if r.Allow("1.2.3.4") {
		t.Error("request over the limit should be denied")
	}
	if !r.Allow("5.6.7.8") {
		t.Error("other keys are counted independently")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	r := NewRateLimiter(1, 20*time.Millisecond)

	if !r.Allow("k") {
		t.Fatal("first request should be allowed")
	}
	if r.Allow("k") {
		t.Fatal("second request in window should be denied")
	}
	time.Sleep(30 * time.Millisecond)
	if !r.Allow("k") {
		t.Error("request after window elapsed should be allowed")
	}
}
