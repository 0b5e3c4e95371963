package validation

import (
	"fmt"
	"strings"
)

// Field declares how one key of a record is checked.
type Field struct {
	Name     string
	Required bool
	Rules    Rules

	// Elements, when set, is applied to every element of a sequence field.
	Elements *Shape
}

// Refinement is a cross-field check that only runs once every field of the
// record passed its own rules.
type Refinement func(record map[string]interface{}, prefix string) *FieldError

// Shape is a declarative record schema: fields are checked in order.
type Shape struct {
	Name   string
	Fields []Field

	// Strict refinements run only when Options.Strict is set.
	Strict []Refinement
}

// collector accumulates violations and decides when checking stops.
type collector struct {
	opts Options
	errs Errors
}

// add records fe and reports whether checking should stop.
func (c *collector) add(fe *FieldError) bool {
	c.errs = append(c.errs, fe)
	return !c.opts.CollectAll
}

// check applies the shape to record and reports whether checking should stop.
func (s *Shape) check(record map[string]interface{}, prefix string, c *collector) bool {
	before := len(c.errs)
	for i := range s.Fields {
		if s.Fields[i].check(record, prefix, c) {
			return true
		}
	}

	if !c.opts.Strict || len(c.errs) > before {
		return false
	}
	for _, refine := range s.Strict {
		if fe := refine(record, prefix); fe != nil {
			if c.add(fe) {
				return true
			}
		}
	}
	return false
}

func (f *Field) check(record map[string]interface{}, prefix string, c *collector) bool {
	path := joinPath(prefix, f.Name)

	value, present := record[f.Name]
	if !present || value == nil {
		if f.Required {
			return c.add(&FieldError{Path: path, Code: CodeRequired, Message: "is required"})
		}
		return false
	}

	if fe := f.Rules.Apply(path, value); fe != nil {
		return c.add(fe)
	}

	if f.Elements == nil {
		return false
	}
	items, _ := asSequence(value)
	for i, item := range items {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		element, ok := item.(map[string]interface{})
		if !ok {
			if c.add(&FieldError{Path: itemPath, Code: CodeInvalidType, Message: "must be an object"}) {
				return true
			}
			continue
		}
		if f.Elements.check(element, itemPath, c) {
			return true
		}
	}
	return false
}

// withFieldRules returns a copy of s whose named field uses rules instead.
func (s *Shape) withFieldRules(name string, rules Rules) *Shape {
	out := &Shape{Name: s.Name, Strict: s.Strict, Fields: make([]Field, len(s.Fields))}
	copy(out.Fields, s.Fields)
	for i := range out.Fields {
		if out.Fields[i].Name == name {
			out.Fields[i].Rules = rules
		}
	}
	return out
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// pathSegments counts the non-empty "/"-separated segments of path.
func pathSegments(path string) int {
	n := 0
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			n++
		}
	}
	return n
}
