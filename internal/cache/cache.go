package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// PromptKey generates a cache key for one inference call. The key covers
// everything that shapes the completion — provider, model, prompt and
// sampling options — so a cached response is only ever reused for the exact
// same call.
func PromptKey(provider, model, prompt string, maxTokens int, temperature float64) string {
	canonical := fmt.Sprintf("%s|%s|%d|%g|%s", provider, model, maxTokens, temperature, prompt)
	hash := sha256.Sum256([]byte(canonical))
	return "lacuna:v1:" + hex.EncodeToString(hash[:])
}
