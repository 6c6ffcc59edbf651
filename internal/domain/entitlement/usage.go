package entitlement

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// MetadataKeyFreeUsage is the identity metadata key holding the counter.
const MetadataKeyFreeUsage = "free_usage"

// usageFromMetadata reads the free usage counter. The second result is
// false when no counter is stored.
func usageFromMetadata(meta map[string]any) (int64, bool, error) {
	raw, ok := meta[MetadataKeyFreeUsage]
	if !ok || raw == nil {
		return 0, false, nil
	}

	var n int64
	switch v := raw.(type) {
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case float64:
		if v != math.Trunc(v) {
			return 0, true, fmt.Errorf("%w: %v", ErrInvalidUsage, v)
		}
		n = int64(v)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, true, fmt.Errorf("%w: %q", ErrInvalidUsage, v.String())
		}
		n = i
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, true, fmt.Errorf("%w: %q", ErrInvalidUsage, v)
		}
		n = i
	default:
		return 0, true, fmt.Errorf("%w: unsupported type %T", ErrInvalidUsage, raw)
	}

	if n < 0 {
		return 0, true, fmt.Errorf("%w: negative counter %d", ErrInvalidUsage, n)
	}
	return n, true, nil
}
