package settings

import "encoding/json"

// jsoncCodec reads JSON-with-comments and writes plain JSON, which is
// itself valid JSONC.
type jsoncCodec struct{}

func (jsoncCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(stripComments(data), v)
}

func (jsoncCodec) Marshal(v interface{}) ([]byte, error) {
	return jsonCodec{}.Marshal(v)
}

// stripComments removes // line comments and /* */ block comments from JSONC
// input, respecting string literals. Comment bytes are replaced with spaces
// (newlines kept) so parse error offsets still point at the original text.
func stripComments(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)

	const (
		stateCode = iota
		stateString
		stateLineComment
		stateBlockComment
	)

	state := stateCode
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch state {
		case stateCode:
			switch {
			case c == '"':
				state = stateString
			case c == '/' && i+1 < len(out) && out[i+1] == '/':
				state = stateLineComment
				out[i] = ' '
			case c == '/' && i+1 < len(out) && out[i+1] == '*':
				state = stateBlockComment
				out[i] = ' '
			}
		case stateString:
			if c == '\\' {
				i++ // skip the escaped byte
			} else if c == '"' {
				state = stateCode
			}
		case stateLineComment:
			if c == '\n' {
				state = stateCode
			} else {
				out[i] = ' '
			}
		case stateBlockComment:
			if c == '*' && i+1 < len(out) && out[i+1] == '/' {
				out[i] = ' '
				out[i+1] = ' '
				i++
				state = stateCode
			} else if c != '\n' {
				out[i] = ' '
			}
		}
	}

	return out
}
