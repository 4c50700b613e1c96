package rule

import (
	"fmt"
	"reflect"
)

// Rule is implemented by every rule module. Name is the short, stable name
// policy documents use; Key is the canonical type-based identity required
// on action requests. Implementations derive Key from their unexported
// witness type via the Key function below.
type Rule interface {
	Name() string
	Key() string
}

// Key derives the canonical rule identity from a witness value: the fully
// qualified name of its Go type. Type identity is unforgeable across
// packages - no two packages can define the same qualified type - which is
// what makes a witness value a capability rather than a plain marker.
func Key(witness interface{}) string {
	rType := reflect.TypeOf(witness)
	for rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	if rType.PkgPath() == "" {
		// Predeclared or anonymous types carry no package path and would
		// collide; refuse them early.
		panic(fmt.Sprintf("rule: witness %v has no package-qualified type", rType))
	}
	return rType.PkgPath() + "." + rType.Name()
}
