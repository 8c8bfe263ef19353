package engine

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"fedadmin/internal/errs"
)

// Filter is the set of criteria restricting a collection. It is built from
// an ordered field schema and every schema field always holds a value; the
// empty string means no constraint. Filter is a value: updates return a
// new Filter and never alter the receiver.
type Filter struct {
	fields []string
	values map[string]string
}

// NewFilter returns an empty filter over the given fields. Blank and
// duplicate field names are ignored.
func NewFilter(fields ...string) Filter {
	f := Filter{values: make(map[string]string, len(fields))}
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if _, dup := f.values[field]; dup {
			continue
		}
		f.fields = append(f.fields, field)
		f.values[field] = ""
	}
	return f
}

// Fields returns the schema in declaration order.
func (f Filter) Fields() []string {
	out := make([]string, len(f.fields))
	copy(out, f.fields)
	return out
}

// Has reports whether field belongs to the schema.
func (f Filter) Has(field string) bool {
	_, ok := f.values[field]
	return ok
}

func (f Filter) Get(field string) string {
	return f.values[field]
}

// With returns a copy of f where field holds value and every other field
// is unchanged.
func (f Filter) With(field, value string) (Filter, error) {
	return f.Merge(map[string]string{field: value})
}

// Merge applies several field updates at once. Either all updates apply or,
// when one names a field outside the schema, none do.
func (f Filter) Merge(updates map[string]string) (Filter, error) {
	var unknown []string
	for field := range updates {
		if !f.Has(field) {
			unknown = append(unknown, field)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return f, errs.New(errs.CodeFilterInvalid,
			"unknown filter field "+strings.Join(unknown, ", ")+" (known: "+strings.Join(f.fields, ", ")+")")
	}

	next := f.clone()
	for field, value := range updates {
		next.values[field] = strings.TrimSpace(value)
	}
	return next, nil
}

// Clear resets every field to the empty string.
func (f Filter) Clear() Filter {
	return NewFilter(f.fields...)
}

func (f Filter) Equal(other Filter) bool {
	if len(f.fields) != len(other.fields) {
		return false
	}
	for i, field := range f.fields {
		if other.fields[i] != field || other.values[field] != f.values[field] {
			return false
		}
	}
	return true
}

// SameSchema reports whether both filters were built from the same fields.
func (f Filter) SameSchema(other Filter) bool {
	if len(f.fields) != len(other.fields) {
		return false
	}
	for i, field := range f.fields {
		if other.fields[i] != field {
			return false
		}
	}
	return true
}

// IsZero reports whether no field constrains the collection.
func (f Filter) IsZero() bool {
	for _, v := range f.values {
		if v != "" {
			return false
		}
	}
	return true
}

// Values returns a copy of every field, including empty ones.
func (f Filter) Values() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Active returns only the constraining fields.
func (f Filter) Active() map[string]string {
	out := make(map[string]string)
	for _, field := range f.fields {
		if v := f.values[field]; v != "" {
			out[field] = v
		}
	}
	return out
}

// Query encodes the constraining fields as URL query parameters.
func (f Filter) Query() url.Values {
	q := url.Values{}
	for _, field := range f.fields {
		if v := f.values[field]; v != "" {
			q.Set(field, v)
		}
	}
	return q
}

func (f Filter) String() string {
	var parts []string
	for _, field := range f.fields {
		if v := f.values[field]; v != "" {
			parts = append(parts, field+"="+v)
		}
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, " ")
}

func (f Filter) clone() Filter {
	next := Filter{fields: f.fields, values: make(map[string]string, len(f.values))}
	for k, v := range f.values {
		next.values[k] = v
	}
	return next
}

// ParseAssignments turns "field=value" arguments into filter updates. An
// empty value ("status=") clears that field.
func ParseAssignments(args []string) (map[string]string, error) {
	updates := make(map[string]string, len(args))
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, errs.New(errs.CodeFilterInvalid, "expected field=value, got "+strconv.Quote(arg))
		}
		updates[field] = value
	}
	return updates, nil
}

// ParseInput reads a free-form filter line as typed in the console.
// Tokens shaped like field=value are assignments; every other word is
// joined into searchField.
func ParseInput(input, searchField string) (map[string]string, error) {
	updates := make(map[string]string)
	var words []string
	for _, token := range strings.Fields(input) {
		if strings.Contains(token, "=") {
			parsed, err := ParseAssignments([]string{token})
			if err != nil {
				return nil, err
			}
			for k, v := range parsed {
				updates[k] = v
			}
			continue
		}
		words = append(words, token)
	}
	if len(words) > 0 {
		if searchField == "" {
			return nil, errs.New(errs.CodeFilterInvalid, "free text is not supported here, use field=value")
		}
		updates[searchField] = strings.Join(words, " ")
	}
	return updates, nil
}
