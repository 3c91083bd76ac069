package chandragen

import (
	"maps"
	"strconv"
	"strings"
)

// FlagSet holds formatter flags by key. Values decoded from TOML or YAML
// arrive as string, bool, int64, uint64 or float64; the accessors normalise
// them and return the fallback for absent keys or unusable values.
type FlagSet map[string]any

// Merge returns a new FlagSet with overlay's keys replacing f's.
// Neither input is modified.
func (f FlagSet) Merge(overlay FlagSet) FlagSet {
	out := make(FlagSet, len(f)+len(overlay))
	maps.Copy(out, f)
	maps.Copy(out, overlay)
	return out
}

// Has reports whether key is set.
func (f FlagSet) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// String returns the flag as a string.
func (f FlagSet) String(key, fallback string) string {
	switch v := f[key].(type) {
	case string:
		return v
	case nil:
		return fallback
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	default:
		return fallback
	}
}

// Bool returns the flag as a bool. The strings "true"/"false" (any case) are accepted.
func (f FlagSet) Bool(key string, fallback bool) bool {
	switch v := f[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

// Int returns the flag as an int. Integral floats and numeric strings are accepted.
func (f FlagSet) Int(key string, fallback int) int {
	switch v := f[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v) // #nosec G115 -- flag values are small configuration numbers
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}
