package models

// Kind identifies which JSON variant a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns the JSON name of the kind
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a parsed JSON value.
// Only the fields matching Kind are meaningful.
type Value struct {
	Kind Kind
	// Bool holds the value of a boolean.
	Bool bool
	// Text holds the source lexeme of a number or the decoded contents of a string.
	Text string
	// Items holds array elements in source order.
	Items []*Value
	// Members holds object members in source order.
	Members []Member
	// Offset is the byte offset of the first character of the value in the input.
	Offset int
}

// Member is a single key/value pair of a JSON object.
type Member struct {
	Key    string
	Value  *Value
	Offset int // offset of the key's opening quote
}

// IsScalar reports whether v is neither an array nor an object.
func (v *Value) IsScalar() bool {
	return v.Kind != Array && v.Kind != Object
}

// IsInteger reports whether a number lexeme has no fraction and no exponent.
func (v *Value) IsInteger() bool {
	if v.Kind != Number {
		return false
	}
	for i := 0; i < len(v.Text); i++ {
		switch v.Text[i] {
		case '.', 'e', 'E':
			return false
		}
	}
	return true
}

// Len returns the number of elements of an array or members of an object.
func (v *Value) Len() int {
	switch v.Kind {
	case Array:
		return len(v.Items)
	case Object:
		return len(v.Members)
	default:
		return 0
	}
}

// IntermediateRepresentation is the parsed document handed to the analyzer.
type IntermediateRepresentation struct {
	Root        *Value
	RootIsArray bool // True if the root of the JSON is an array
}

// Stats summarises a value tree.
type Stats struct {
	Objects       int
	Arrays        int
	Scalars       int
	MaxDepth      int
	RenamedKeys   int
	KeyCollisions int
}

// AnalysisResult holds the rewritten tree produced by the analyzer.
type AnalysisResult struct {
	Root  *Value
	Stats Stats
}
