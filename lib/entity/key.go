package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CallKey derives the cache key for one memoized call: the operation
// identifier plus every argument reduced to a stable text form. Entities
// reduce to their natural key, so two distinct references to the same
// team index the same cache slot.
func CallKey(op string, args ...any) string {
	if len(args) == 0 {
		return op
	}

	var b strings.Builder
	b.WriteString(op)
	for _, arg := range args {
		b.WriteByte('\x1f')
		b.WriteString(reduceArg(arg))
	}
	return b.String()
}

func reduceArg(v any) string {
	switch x := v.(type) {
	case Entity:
		return MapKey(x)
	case Keyer:
		return x.CacheKey()
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return strconv.FormatInt(x.UnixNano(), 10)
	case []string:
		return strings.Join(x, "\x1e")
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = reduceArg(e)
		}
		return strings.Join(parts, "\x1e")
	default:
		return fmt.Sprintf("%v", x)
	}
}
