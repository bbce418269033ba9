package models

// Field identifies a single collectable booking field
type Field string

const (
	FieldLibrary   Field = "preferred_library"
	FieldDate      Field = "date"
	FieldStartTime Field = "start_time"
	FieldEndTime   Field = "end_time"
	FieldCapacity  Field = "min_capacity"
	FieldEventName Field = "event_name"
)

// FieldScope restricts which fields a merge may touch. A nil scope means
// every field is eligible; an empty non-nil scope allows none.
type FieldScope map[Field]struct{}

// NewFieldScope builds a scope from the given fields
func NewFieldScope(fields ...Field) FieldScope {
	scope := make(FieldScope, len(fields))
	for _, f := range fields {
		scope[f] = struct{}{}
	}
	return scope
}

// Add includes a field in the scope
func (s FieldScope) Add(f Field) {
	s[f] = struct{}{}
}

// Allows reports whether a merge under this scope may touch the field.
// The nil scope is unbounded.
func (s FieldScope) Allows(f Field) bool {
	if s == nil {
		return true
	}
	_, ok := s[f]
	return ok
}
