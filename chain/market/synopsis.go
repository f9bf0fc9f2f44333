package market

import (
	"encoding/json"
)

// A content synopsis is an opaque JSON blob maintained by clients. The
// engine only ever pulls the title out of it, for audit descriptions.
type synopsisBlob struct {
	Title string `json:"title"`
}

// ExtractTitle returns the title field of a synopsis blob, or the
// empty string when the blob does not parse.
func ExtractTitle(synopsis string) string {
	var b synopsisBlob
	if err := json.Unmarshal([]byte(synopsis), &b); err != nil {
		return ""
	}
	return b.Title
}
