package cache

import (
	"testing"
	"time"
)

func TestPromptKey_Deterministic(t *testing.T) {
	a := PromptKey("ollama", "gemma2:2b", "Question: capital?\nAnswer:", 50, 0)
	b := PromptKey("ollama", "gemma2:2b", "Question: capital?\nAnswer:", 50, 0)
	if a != b {
		t.Error("identical inputs produced different keys")
	}
}

func TestPromptKey_CoversAllInputs(t *testing.T) {
	base := PromptKey("ollama", "gemma2:2b", "prompt", 50, 0)

	variants := []string{
		PromptKey("openai", "gemma2:2b", "prompt", 50, 0),
		PromptKey("ollama", "llama3.1", "prompt", 50, 0),
		PromptKey("ollama", "gemma2:2b", "other prompt", 50, 0),
		PromptKey("ollama", "gemma2:2b", "prompt", 100, 0),
		PromptKey("ollama", "gemma2:2b", "prompt", 50, 0.7),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collided with base key", i)
		}
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get("key")
	if !found {
		t.Fatal("key not found after Set")
	}
	if string(val) != "value" {
		t.Errorf("got %q, want %q", val, "value")
	}

	if _, found := c.Get("missing"); found {
		t.Error("found a key that was never set")
	}
}

func TestDiskCache_SetGet(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get("key")
	if !found {
		t.Fatal("key not found after Set")
	}
	if string(val) != "value" {
		t.Errorf("got %q, want %q", val, "value")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("key", []byte("value"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, found := c.Get("key"); found {
		t.Error("expired entry still returned")
	}
}

func TestLayeredCache_DiskPromotion(t *testing.T) {
	dir := t.TempDir()

	// Seed the disk layer directly
	disk := NewDiskCache(dir, time.Minute)
	if err := disk.Set("key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	layered := NewLayeredCache(time.Minute, dir, time.Minute)
	val, found := layered.Get("key")
	if !found {
		t.Fatal("layered cache missed a disk entry")
	}
	if string(val) != "value" {
		t.Errorf("got %q, want %q", val, "value")
	}
}
