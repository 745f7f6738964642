package weights

import "fmt"

// TypoLevel is the number of character edits the index may accept for a token.
type TypoLevel int

// Typo tolerance levels.
const (
	TypoNone TypoLevel = 0
	TypoOne  TypoLevel = 1
	TypoTwo  TypoLevel = 2
)

// Token length thresholds gating typo tolerance. Below MinLen1Typo a token
// must match exactly; below MinLen2Typo at most one edit is permitted.
const (
	DefaultMinLen1Typo = 4
	DefaultMinLen2Typo = 7
)

// Field describes one searchable field: its relevance weight, whether it
// participates in prefix (type-ahead) matching, and its typo tolerance cap.
type Field struct {
	name   string
	weight float64
	prefix bool
	typo   TypoLevel
}

// NewField validates and creates a field entry.
func NewField(name string, weight float64, prefix bool, typo TypoLevel) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if weight <= 0 {
		return Field{}, fmt.Errorf("field %q: weight must be positive", name)
	}
	if typo < TypoNone || typo > TypoTwo {
		return Field{}, fmt.Errorf("field %q: typo level must be 0, 1 or 2", name)
	}
	return Field{name: name, weight: weight, prefix: prefix, typo: typo}, nil
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// Weight returns the relevance weight.
func (f Field) Weight() float64 { return f.weight }

// Prefix reports whether prefix matching is allowed.
func (f Field) Prefix() bool { return f.prefix }

// Typo returns the maximum typo tolerance for the field.
func (f Field) Typo() TypoLevel { return f.typo }

// Table is the immutable weight table: the ordered set of searchable fields
// plus the token-length thresholds gating typo tolerance. Built once at
// startup and shared by reference; never mutated at request time.
type Table struct {
	fields      []Field
	minLen1Typo int
	minLen2Typo int
}

// NewTable validates and creates a weight table.
func NewTable(fields []Field, minLen1Typo, minLen2Typo int) (Table, error) {
	if len(fields) == 0 {
		return Table{}, fmt.Errorf("at least one searchable field is required")
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.name] {
			return Table{}, fmt.Errorf("duplicate field %q", f.name)
		}
		seen[f.name] = true
	}
	if minLen1Typo <= 0 {
		minLen1Typo = DefaultMinLen1Typo
	}
	if minLen2Typo <= 0 {
		minLen2Typo = DefaultMinLen2Typo
	}
	if minLen2Typo < minLen1Typo {
		return Table{}, fmt.Errorf("min_len_2typo (%d) must be >= min_len_1typo (%d)", minLen2Typo, minLen1Typo)
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	return Table{fields: out, minLen1Typo: minLen1Typo, minLen2Typo: minLen2Typo}, nil
}

// Default returns the stock weight table: name and brand are type-ahead
// fields, long free-text fields tolerate more edits than short identifiers.
func Default() Table {
	t, err := NewTable([]Field{
		{name: "name", weight: 4, prefix: true, typo: TypoTwo},
		{name: "description", weight: 2, prefix: false, typo: TypoTwo},
		{name: "tags", weight: 3, prefix: false, typo: TypoOne},
		{name: "brand", weight: 1, prefix: true, typo: TypoOne},
	}, DefaultMinLen1Typo, DefaultMinLen2Typo)
	if err != nil {
		panic(err)
	}
	return t
}

// Fields returns the searchable fields in table order.
func (t Table) Fields() []Field { return t.fields }

// MinLen1Typo returns the minimum token length for one allowed edit.
func (t Table) MinLen1Typo() int { return t.minLen1Typo }

// MinLen2Typo returns the minimum token length for two allowed edits.
func (t Table) MinLen2Typo() int { return t.minLen2Typo }
