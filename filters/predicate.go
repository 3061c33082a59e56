// Package filters builds store-neutral predicates over booking and quotation
// fields and lowers them to MongoDB and SQL.
package filters

import (
	"fmt"
	"time"
)

type Op int

const (
	OpAnd Op = iota
	OpOr
	OpEq
	OpNe
	OpGt
	OpGte
	OpLte
	OpIn
)

func (o Op) String() string {
	switch o {
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLte:
		return "<="
	case OpIn:
		return "IN"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Predicate is either a logical node (And, Or) over Children or a comparison
// of Field against Value (or Values for In).
type Predicate struct {
	Op       Op
	Field    string
	Value    any
	Values   []any
	Children []Predicate
}

// And conjoins predicates. Nested Ands are flattened and empty Ands dropped,
// so composing scoped filters never loses a clause.
func And(ps ...Predicate) Predicate {
	out := Predicate{Op: OpAnd}
	for _, p := range ps {
		if p.Op == OpAnd {
			out.Children = append(out.Children, p.Children...)
			continue
		}
		out.Children = append(out.Children, p)
	}
	return out
}

func Or(ps ...Predicate) Predicate {
	return Predicate{Op: OpOr, Children: ps}
}

func Eq(field string, v any) Predicate  { return Predicate{Op: OpEq, Field: field, Value: v} }
func Ne(field string, v any) Predicate  { return Predicate{Op: OpNe, Field: field, Value: v} }
func Gt(field string, v any) Predicate  { return Predicate{Op: OpGt, Field: field, Value: v} }
func Gte(field string, v any) Predicate { return Predicate{Op: OpGte, Field: field, Value: v} }
func Lte(field string, v any) Predicate { return Predicate{Op: OpLte, Field: field, Value: v} }

func In(field string, vs ...any) Predicate {
	return Predicate{Op: OpIn, Field: field, Values: vs}
}

// IsEmpty reports whether p matches everything.
func (p Predicate) IsEmpty() bool {
	return p.Op == OpAnd && len(p.Children) == 0
}

// Fields returns every field name the predicate reads, in first-seen order.
func (p Predicate) Fields() []string {
	seen := map[string]bool{}
	var out []string
	var walk func(Predicate)
	walk = func(q Predicate) {
		if q.Op == OpAnd || q.Op == OpOr {
			for _, c := range q.Children {
				walk(c)
			}
			return
		}
		if !seen[q.Field] {
			seen[q.Field] = true
			out = append(out, q.Field)
		}
	}
	walk(p)
	return out
}

func (p Predicate) String() string {
	switch p.Op {
	case OpAnd, OpOr:
		s := "("
		for i, c := range p.Children {
			if i > 0 {
				s += " " + p.Op.String() + " "
			}
			s += c.String()
		}
		return s + ")"
	case OpIn:
		return fmt.Sprintf("%s IN %v", p.Field, p.Values)
	}
	return fmt.Sprintf("%s %s %v", p.Field, p.Op, p.Value)
}

// Record is a flat view of a stored document, keyed by store field name.
type Record map[string]any

// Matches evaluates p against r. A missing field is unequal to every value,
// so Ne matches it and every other comparison does not.
func (p Predicate) Matches(r Record) bool {
	switch p.Op {
	case OpAnd:
		for _, c := range p.Children {
			if !c.Matches(r) {
				return false
			}
		}
		return true
	case OpOr:
		for _, c := range p.Children {
			if c.Matches(r) {
				return true
			}
		}
		return false
	}

	v, ok := r[p.Field]
	if !ok || v == nil {
		return p.Op == OpNe
	}

	switch p.Op {
	case OpEq:
		return equal(v, p.Value)
	case OpNe:
		return !equal(v, p.Value)
	case OpIn:
		for _, want := range p.Values {
			if equal(v, want) {
				return true
			}
		}
		return false
	case OpGt, OpGte, OpLte:
		c, ok := compare(v, p.Value)
		if !ok {
			return false
		}
		switch p.Op {
		case OpGt:
			return c > 0
		case OpGte:
			return c >= 0
		default:
			return c <= 0
		}
	}
	return false
}

func equal(a, b any) bool {
	if c, ok := compare(a, b); ok {
		return c == 0
	}
	return a == b
}

// compare orders numbers and times; ok is false for anything else.
func compare(a, b any) (int, bool) {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return ta.Compare(tb), true
	}
	fa, ok := toFloat(a)
	if !ok {
		return 0, false
	}
	fb, ok := toFloat(b)
	if !ok {
		return 0, false
	}
	switch {
	case fa < fb:
		return -1, true
	case fa > fb:
		return 1, true
	}
	return 0, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
