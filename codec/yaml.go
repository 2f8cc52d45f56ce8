package codec

import (
	"gopkg.in/yaml.v3"
)

// YAML encodes documents as YAML.
//
// Useful when config files are hand-edited on the host; the persistence
// layer accepts either codec as long as save and load agree.
type YAML struct{}

// Marshal encodes the value to YAML.
func (YAML) Marshal(v any) ([]byte, error) { return yaml.Marshal(v) }

// Unmarshal decodes the YAML data into v.
func (YAML) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

// Name returns the unique name of the codec ("yaml").
func (YAML) Name() string { return "yaml" }
