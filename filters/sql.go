package filters

import (
	"fmt"
	"strings"
)

// ToSQL lowers p to a WHERE clause for PostgreSQL. columns maps field names
// to column names; placeholders start at $argStart. Unmapped fields are an error.
func (p Predicate) ToSQL(columns map[string]string, argStart int) (string, []any, error) {
	b := sqlBuilder{columns: columns, next: argStart}
	clause, err := b.build(p)
	if err != nil {
		return "", nil, err
	}
	return clause, b.args, nil
}

type sqlBuilder struct {
	columns map[string]string
	next    int
	args    []any
}

func (b *sqlBuilder) placeholder(v any) string {
	b.args = append(b.args, v)
	s := fmt.Sprintf("$%d", b.next)
	b.next++
	return s
}

func (b *sqlBuilder) build(p Predicate) (string, error) {
	switch p.Op {
	case OpAnd, OpOr:
		if len(p.Children) == 0 {
			if p.Op == OpAnd {
				return "TRUE", nil
			}
			return "FALSE", nil
		}
		parts := make([]string, 0, len(p.Children))
		for _, c := range p.Children {
			s, err := b.build(c)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		return "(" + strings.Join(parts, " "+p.Op.String()+" ") + ")", nil
	}

	col, ok := b.columns[p.Field]
	if !ok {
		return "", fmt.Errorf("filters: no column mapped for field %q", p.Field)
	}

	switch p.Op {
	case OpEq:
		return col + " = " + b.placeholder(p.Value), nil
	case OpNe:
		return col + " IS DISTINCT FROM " + b.placeholder(p.Value), nil
	case OpGt, OpGte, OpLte:
		return col + " " + p.Op.String() + " " + b.placeholder(p.Value), nil
	case OpIn:
		if len(p.Values) == 0 {
			return "FALSE", nil
		}
		ph := make([]string, 0, len(p.Values))
		for _, v := range p.Values {
			ph = append(ph, b.placeholder(v))
		}
		return col + " IN (" + strings.Join(ph, ", ") + ")", nil
	}
	return "", fmt.Errorf("filters: unsupported op %s", p.Op)
}
