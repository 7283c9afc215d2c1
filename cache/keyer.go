package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Keyer generates deterministic cache keys from a query and its variables.
//
// Contract:
// - Determinism: the same query and variables must produce the same key,
//   regardless of map iteration order or insignificant whitespace in the
//   query text.
// - Sensitivity: different variable values must produce different keys.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key from query text and variables.
	Key(query string, variables map[string]any) (string, error)
}

// QueryKeyer generates SHA-256 based cache keys from normalized query text.
type QueryKeyer struct{}

// NewQueryKeyer creates a new query keyer.
func NewQueryKeyer() *QueryKeyer {
	return &QueryKeyer{}
}

// Key generates a deterministic cache key.
// Format: query:<hash>
// where hash is the first 16 hex characters of
// SHA-256(normalized query + "\n" + canonical JSON(variables)).
func (k *QueryKeyer) Key(query string, variables map[string]any) (string, error) {
	canonical, err := canonicalize(variables)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize variables: %w", err)
	}

	normalized := NormalizeQuery(query)

	h := sha256.New()
	h.Write([]byte(normalized))
	h.Write([]byte{'\n'})
	h.Write(canonical)
	sum := h.Sum(nil)

	return fmt.Sprintf("query:%s", hex.EncodeToString(sum[:8])), nil
}

// NormalizeQuery collapses all whitespace runs in the query to single
// spaces and trims the ends, so that the key is stable across
// formatting-only changes.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

// canonicalize produces a deterministic JSON representation of the input.
// Maps are sorted by key to ensure consistent ordering.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}

// Ensure QueryKeyer implements Keyer
var _ Keyer = (*QueryKeyer)(nil)
