package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := NewLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !l.Allow("https://api.example.com/v1/messages") {
			t.Errorf("request %d denied within burst", i)
		}
	}
	if l.Allow("https://api.example.com/v1/messages") {
		t.Error("request allowed beyond burst")
	}
}

func TestLimiter_HostsAreIndependent(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("https://api.openai.com/v1") {
		t.Error("first host denied its burst")
	}
	if !l.Allow("http://localhost:11434/api/generate") {
		t.Error("second host hit the first host's limit")
	}
}

func TestLimiter_Wait(t *testing.T) {
	l := NewLimiter(100, 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// Two sequential waits: the second must clear within the rate window.
	if err := l.Wait(ctx, "https://api.example.com"); err != nil {
		t.Fatalf("first Wait failed: %v", err)
	}
	if err := l.Wait(ctx, "https://api.example.com"); err != nil {
		t.Fatalf("second Wait failed: %v", err)
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	l := NewLimiter(1, 1)
	l.SetHostRate("api.example.com", 100, 10)

	for i := 0; i < 10; i++ {
		if !l.Allow("https://api.example.com") {
			t.Errorf("request %d denied after raising host rate", i)
		}
	}
}
