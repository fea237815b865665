package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Keyer derives deterministic cache keys.
//
// Contract:
// - Determinism: equal inputs produce equal keys regardless of map order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	Key(op string, input any) (string, error)
}

// HashKeyer builds keys of the form cache:<op>:<hash>, where hash is the
// first 16 hex characters of SHA-256 over the canonical JSON of input.
type HashKeyer struct{}

var _ Keyer = HashKeyer{}

// Key implements Keyer.
func (HashKeyer) Key(op string, input any) (string, error) {
	canonical, err := canonicalJSON(input)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize input: %w", err)
	}
	sum := sha256.Sum256(canonical)
	key := "cache:" + op + ":" + hex.EncodeToString(sum[:8])
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

// canonicalJSON encodes v with map keys sorted at every level. Values that
// are neither maps nor slices of any are round-tripped through
// encoding/json first so struct inputs get the same treatment.
func canonicalJSON(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return []byte("null"), nil
	case map[string]any:
		buf := []byte{'{'}
		for i, k := range slices.Sorted(maps.Keys(val)) {
			if i > 0 {
				buf = append(buf, ',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			vb, err := canonicalJSON(val[k])
			if err != nil {
				return nil, err
			}
			buf = append(append(append(buf, kb...), ':'), vb...)
		}
		return append(buf, '}'), nil
	case []any:
		buf := []byte{'['}
		for i, item := range val {
			if i > 0 {
				buf = append(buf, ',')
			}
			ib, err := canonicalJSON(item)
			if err != nil {
				return nil, err
			}
			buf = append(buf, ib...)
		}
		return append(buf, ']'), nil
	case string, bool, float64, json.Number:
		return json.Marshal(val)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return canonicalJSON(generic)
}
