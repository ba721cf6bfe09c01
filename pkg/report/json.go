package report

import (
	"encoding/json"
	"io"
)

// JSONRenderer marshals a ScoreSheet to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, sheet *ScoreSheet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sheet)
}
