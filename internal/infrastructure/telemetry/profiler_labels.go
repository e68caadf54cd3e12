package telemetry

import (
	"context"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys
const (
	ProfilingLabelRoute     = "route"
	ProfilingLabelMethod    = "method"
	ProfilingLabelOperation = "operation"
	ProfilingLabelChannel   = "channel"
	ProfilingLabelLVB       = "lvb"
	ProfilingLabelArea      = "area"
)

// MaxLabelValueLength caps label values to keep profile series bounded
const MaxLabelValueLength = 128

// highCardinalityLabels are dropped from profiling labels
var highCardinalityLabels = map[string]bool{
	"request_id":   true,
	"trace_id":     true,
	"span_id":      true,
	"channable_id": true,
	"cart_id":      true,
	"sku":          true,
}

// WithProfilingLabels runs fn with pprof labels so Pyroscope can slice its profiles.
// The labels map is not retained.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// HTTPRequestLabels returns the labels for a request on a route
func HTTPRequestLabels(route, method string) map[string]string {
	labels := make(map[string]string, 2)
	if route != "" {
		labels[ProfilingLabelRoute] = route
	}
	if method != "" {
		labels[ProfilingLabelMethod] = method
	}
	return labels
}

// OperationLabels returns the labels for a named operation plus extras
func OperationLabels(operation string, extra map[string]string) map[string]string {
	labels := make(map[string]string, len(extra)+1)
	for k, v := range extra {
		labels[k] = v
	}
	labels[ProfilingLabelOperation] = operation
	return labels
}

// sanitizeLabels returns key/value pairs sorted by sanitized key, without
// empty, high-cardinality or malformed entries. When raw keys collide after
// sanitizing, the value of the smallest raw key wins.
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}

	type entry struct {
		raw   string
		value string
	}
	byKey := make(map[string]entry, len(labels))
	for raw, value := range labels {
		if value == "" {
			continue
		}
		key := sanitizeLabelKey(raw)
		if key == "" || highCardinalityLabels[key] {
			continue
		}
		if prev, ok := byKey[key]; ok && prev.raw < raw {
			continue
		}
		byKey[key] = entry{raw: raw, value: truncateLabelValue(value)}
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		pairs = append(pairs, key, byKey[key].value)
	}
	return pairs
}

// truncateLabelValue keeps at most MaxLabelValueLength runes of value
func truncateLabelValue(value string) string {
	n := 0
	for i := range value {
		if n == MaxLabelValueLength {
			return value[:i]
		}
		n++
	}
	return value
}

// sanitizeLabelKey lowercases key and keeps only [a-z0-9_]
func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_':
			b.WriteByte(c)
		case c == ' ' || c == '-':
			b.WriteByte('_')
		}
	}
	return b.String()
}
