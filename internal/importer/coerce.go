package importer

import (
	"fmt"
	"strconv"
	"strings"
)

// booleanTokens is the accepted-token set shared by the validator and the
// reconciler.
var booleanTokens = map[string]bool{
	"true": true, "false": false,
	"1": true, "0": false,
	"yes": true, "no": false,
}

// ToBoolean decodes a raw cell value into a boolean using the fixed
// accepted-token set (case-insensitive).
func ToBoolean(value string) (bool, error) {
	b, ok := booleanTokens[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return false, fmt.Errorf("invalid boolean value %q (accepted: true/false, 1/0, yes/no)", value)
	}
	return b, nil
}

// Slugify derives a URL slug from a product name: lowercase, runs of
// non-alphanumeric characters collapsed to a single hyphen, leading and
// trailing hyphens trimmed. Deriving twice from the same name yields the
// same slug, which the sku-or-slug match during reconciliation relies on.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// SplitList splits a comma-separated cell into trimmed values, dropping
// blanks. Used for tags and materials.
func SplitList(value string) []string {
	return splitCell(value, ",")
}

// SplitImages splits a pipe-separated images cell into trimmed URLs,
// dropping blanks.
func SplitImages(value string) []string {
	return splitCell(value, "|")
}

func splitCell(value, sep string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsHTTPURL checks the basic http(s)://... shape required for image URLs.
// Images are referenced by URL only and never fetched, so no deeper
// validation applies.
func IsHTTPURL(value string) bool {
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		return false
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(value, "https://"), "http://")
	return rest != "" && !strings.ContainsAny(rest, " \t")
}

// parseOptionalFloat returns nil for blank cells, never zero.
func parseOptionalFloat(value string) (*float64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", value)
	}
	return &f, nil
}

// parseOptionalInt returns nil for blank cells, never zero.
func parseOptionalInt(value string) (*int, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q", value)
	}
	return &n, nil
}

func optionalString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	v := strings.TrimSpace(value)
	return &v
}
