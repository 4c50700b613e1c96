// Package yml holds small YAML plumbing helpers shared by document decoding
// and rule config handling. It lives under internal because callers should
// go through the document service rather than re-decode raw values.
package yml

import (
	"gopkg.in/yaml.v3"
)

// Decode converts an arbitrary YAML-decoded value (maps, slices, scalars)
// into the typed target by round-tripping through the YAML codec. Rule
// configs arrive from documents as interface{} trees; this is the one place
// they get shaped into their concrete structs.
func Decode(raw interface{}, target interface{}) error {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, target)
}
