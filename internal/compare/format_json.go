package compare

import (
	"encoding/json"
	"strings"
)

// JSONFormatter writes a comparison set as one JSON document ending in a newline.
// Company names are written verbatim (no HTML escaping of &, < or >).
type JSONFormatter struct {
	Pretty bool
}

func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	if jf.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(compSet); err != nil {
		return "", err
	}
	return sb.String(), nil
}
