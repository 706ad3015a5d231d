package credential

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// Canonicalize renders a JSON-compatible value deterministically: object keys
// sorted lexicographically, array order preserved, no whitespace. Deep-equal
// values canonicalize identically regardless of map insertion order. This is
// the sole property the integrity scheme depends on, so the rendering here is
// a wire contract shared with the issuer, not an implementation detail.
func Canonicalize(v any) string {
	var sb strings.Builder
	writeCanonical(&sb, v)
	return sb.String()
}

func writeCanonical(sb *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		sb.WriteString("null")
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(jsonLiteral(k))
			sb.WriteByte(':')
			writeCanonical(sb, t[k])
		}
		sb.WriteByte('}')
	case []any:
		sb.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCanonical(sb, e)
		}
		sb.WriteByte(']')
	case Credential:
		writeCanonical(sb, map[string]any(t))
	default:
		sb.WriteString(jsonLiteral(t))
	}
}

// jsonLiteral encodes a primitive the way the issuer's serializer does.
// HTML escaping is disabled: the issuer emits "<" and "&" verbatim and the
// root hash covers every byte.
func jsonLiteral(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		// Non-serializable input is a programming error; canonicalization is
		// total over everything decoded from JSON.
		panic("credential: canonicalize non-JSON value: " + err.Error())
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
