package cache

import (
	"fmt"
	"strings"
)

// KeyPrefix namespaces title entries within a shared key space.
const KeyPrefix = "t/"

// MaxKeyLength is the maximum key length in bytes (the S3 object key limit).
const MaxKeyLength = 1024

// Key derives the cache key for title. The title is used verbatim: keys are
// case-sensitive and no further normalization happens here.
func Key(title string) (string, error) {
	key := KeyPrefix + title
	if err := ValidateKey(key); err != nil {
		return "", fmt.Errorf("key for title %q: %w", title, err)
	}
	return key, nil
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if strings.TrimSpace(strings.TrimPrefix(key, KeyPrefix)) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r\x00") {
		return ErrInvalidKey
	}
	return nil
}
