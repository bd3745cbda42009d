package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

// Filter = query param list yang sudah dinormalisasi (key lowercase, value trim, kosong dibuang).
type Filter map[string]string

func NewFilter(kv map[string]string) Filter {
	f := Filter{}
	for k, v := range kv {
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		f[k] = v
	}
	return f
}

func (f Filter) Get(key string) string { return f[key] }

// Fingerprint is stable for equal filters regardless of map order.
func (f Filter) Fingerprint() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(f[k]))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (f Filter) JSON() []byte {
	if f == nil {
		return []byte("{}")
	}
	b, _ := json.Marshal(map[string]string(f))
	return b
}

// Source is a list that can be selected across pages.
type Source interface {
	// Count = jumlah baris yang cocok dengan filter.
	Count(ctx context.Context, f Filter) (int64, error)
	// MatchIDs returns the subset of ids that exist under the filter.
	MatchIDs(ctx context.Context, f Filter, ids []string) ([]string, error)
}

// FilterParser is implemented by sources that validate/normalize their own
// query params. FilterFor prefers it over the registered key list.
type FilterParser interface {
	ParseFilter(query map[string]string) (Filter, error)
}

// Canonicalizer is implemented by sources whose ids have one canonical
// spelling (mis. UUID lowercase). "" = id tidak mungkin ada di list.
type Canonicalizer interface {
	CanonicalID(id string) string
}
