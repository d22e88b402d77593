package settings

import (
	"github.com/pelletier/go-toml/v2"
)

// tomlCodec wraps go-toml. It lives behind the lazy codec registry so the
// dependency is only initialized when an agent actually uses TOML settings.
type tomlCodec struct{}

func newTOMLCodec() codec {
	return tomlCodec{}
}

func (tomlCodec) Unmarshal(data []byte, v interface{}) error {
	return toml.Unmarshal(data, v)
}

func (tomlCodec) Marshal(v interface{}) ([]byte, error) {
	return toml.Marshal(v)
}
