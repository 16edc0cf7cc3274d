package swap

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

// lineageHash derives a deterministic identifier from the instrument,
// as-of date, curve identifiers, and lineage metadata. Two pricing calls
// with identical inputs produce identical hashes; map iteration order is
// neutralized by sorting keys.
func lineageHash(inst Instrument, asOf time.Time, curveIDs, lineage map[string]string) string {
	parts := []string{
		inst.Kind(),
		inst.InstrumentID(),
		asOf.Format("2006-01-02"),
	}
	parts = append(parts, sortedPairs(curveIDs)...)
	parts = append(parts, sortedPairs(lineage)...)

	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(h[:])
}

func sortedPairs(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+m[k])
	}
	return out
}
