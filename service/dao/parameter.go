package dao

// Parameter is an optional name/value filter accepted by List.
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter builds a list filter; one value stays scalar, several become
// a slice.
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}
