package analysis

import (
	"encoding/json"
	"strings"
)

// stripFences removes a markdown code fence wrapped around a model reply.
// Models wrap JSON in ```json ... ``` often enough that this is the one
// tolerated deviation; everything inside the fence is still parsed strictly.
func stripFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	t = strings.TrimPrefix(t, "json")
	if i := strings.LastIndex(t, "```"); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

// decodeReport validates raw against the kind's schema and deserializes it
// into v. Any syntax error or missing required field yields a ParseError
// carrying the raw text; v is never partially populated on failure. Sentinel
// strings such as "None" or "N/A" pass through verbatim.
func decodeReport(kind Kind, raw string, v any) error {
	clean := stripFences(raw)
	schema := schemaFor(kind)
	if err := schema.Validate([]byte(clean)); err != nil {
		return &ParseError{Kind: kind, Raw: raw, Err: err}
	}
	if err := json.Unmarshal([]byte(clean), v); err != nil {
		return &ParseError{Kind: kind, Raw: raw, Err: err}
	}
	return nil
}
