package filter

import "strings"

// BinaryOp compares two resolved operands.
type BinaryOp func(left, right any) bool

type operator struct {
	token string
	fn    BinaryOp
}

// builtinOps are tried in order; two-character tokens come before their
// one-character prefixes.
var builtinOps = []operator{
	{"==", func(l, r any) bool { return Text(l) == Text(r) }},
	{"!=", func(l, r any) bool { return Text(l) != Text(r) }},
	{">=", numeric(func(l, r float64) bool { return l >= r })},
	{"<=", numeric(func(l, r float64) bool { return l <= r })},
	{">", numeric(func(l, r float64) bool { return l > r })},
	{"<", numeric(func(l, r float64) bool { return l < r })},
	{" contains ", func(l, r any) bool { return strings.Contains(Text(l), Text(r)) }},
}

// numeric lifts a float comparison to operands, failing when either side
// is not a number.
func numeric(cmp func(l, r float64) bool) BinaryOp {
	return func(left, right any) bool {
		l, ok := Number(left)
		if !ok {
			return false
		}
		r, ok := Number(right)
		if !ok {
			return false
		}
		return cmp(l, r)
	}
}
