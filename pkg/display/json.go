package display

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// JSON writes each view as one JSON object per line, for consumption by other programs:
//
//	{"advertising":true,"command":"STOP","sequence":1}
type JSON struct {
	w io.Writer
}

func NewJSON(w io.Writer) *JSON {
	return &JSON{w: w}
}

// Struct converts v into a protobuf Struct.
func Struct(v View) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"command":     v.Command,
		"sequence":    int(v.Sequence),
		"advertising": v.Advertising,
	})
}

func (j *JSON) Render(v View) error {
	s, err := Struct(v)
	if err != nil {
		return err
	}
	// protojson randomly inserts whitespace to discourage byte comparisons; strip it so each view
	// stays one stable line.
	encoded, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode view: %w", err)
	}
	_, err = fmt.Fprintf(j.w, "%s\n", compact(encoded))
	return err
}

// compact strips the whitespace protojson may insert between tokens. Whitespace inside strings
// is kept; command labels can contain spaces.
func compact(b []byte) []byte {
	out := make([]byte, 0, len(b))
	inString := false
	escaped := false
	for _, c := range b {
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && (c == ' ' || c == '\n' || c == '\t'):
			continue
		}
		out = append(out, c)
	}
	return out
}
