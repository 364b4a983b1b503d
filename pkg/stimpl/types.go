package stimpl

import "fmt"

// TypeTag is the nominal type of a runtime value. The set is closed; two
// tags are compatible only when they are identical.
type TypeTag int

const (
	UnitType TypeTag = iota
	IntegerType
	FloatingPointType
	StringType
	BooleanType
)

var typeNames = [...]string{
	UnitType:          "Unit",
	IntegerType:       "Integer",
	FloatingPointType: "FloatingPoint",
	StringType:        "String",
	BooleanType:       "Boolean",
}

func (t TypeTag) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("TypeTag(%d)", int(t))
}

// ParseTypeTag maps a rendered tag name back to its TypeTag.
func ParseTypeTag(name string) (TypeTag, bool) {
	for i, n := range typeNames {
		if n == name {
			return TypeTag(i), true
		}
	}
	return 0, false
}
