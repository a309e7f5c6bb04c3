package cache

import (
	"strings"
	"testing"
)

func TestTextKey(t *testing.T) {
	c := &EntityCache{config: &Config{KeyPrefix: "piisentinel"}}

	t.Run("Stable", func(t *testing.T) {
		if c.textKey("same text") != c.textKey("same text") {
			t.Error("Same text should produce the same key")
		}
	})

	t.Run("DistinctTexts", func(t *testing.T) {
		if c.textKey("one") == c.textKey("two") {
			t.Error("Different texts should produce different keys")
		}
	})

	t.Run("Prefixed", func(t *testing.T) {
		if !strings.HasPrefix(c.textKey("text"), "piisentinel:ner:") {
			t.Errorf("Unexpected key shape: %s", c.textKey("text"))
		}
	})
}
