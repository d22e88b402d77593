package settings

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
)

// Format identifies the serialization format of a settings file.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
	FormatTOML  Format = "toml"
)

// FormatForPath selects the format from the file name's extension.
// Anything that is not .toml or .jsonc is treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".jsonc":
		return FormatJSONC
	default:
		return FormatJSON
	}
}

// codec marshals and unmarshals one settings format.
type codec interface {
	Unmarshal(data []byte, v interface{}) error
	Marshal(v interface{}) ([]byte, error)
}

// Codecs are constructed on first use so the common JSON-only path never
// initializes TOML or JSONC support.
var (
	jsonCodecOnce  = sync.OnceValue(func() codec { return jsonCodec{} })
	jsoncCodecOnce = sync.OnceValue(func() codec { return jsoncCodec{} })
	tomlCodecOnce  = sync.OnceValue(newTOMLCodec)
)

func codecFor(format Format) codec {
	switch format {
	case FormatTOML:
		return tomlCodecOnce()
	case FormatJSONC:
		return jsoncCodecOnce()
	default:
		return jsonCodecOnce()
	}
}

// jsonCodec reads and writes plain JSON with stable indentation.
type jsonCodec struct{}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
