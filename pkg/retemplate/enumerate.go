package retemplate

import (
	"context"
	"slices"
)

// cancelCheckInterval is how many candidate positions are examined between
// context checks.
const cancelCheckInterval = 1024

// enumerator walks the cartesian product of per-literal occurrence lists
// and visits the alignments whose end offsets keep the literals in order.
//
// Tuples are produced in product order: the first list varies slowest.
// An alignment is accepted when every literal ends after the previous one
// and starts no earlier than the previous one ends. Because each list is
// ascending, the acceptable entries for a level form a suffix of its list,
// so rejected prefixes are never extended.
//
// The start rule is stricter than a plain "ends strictly increase" check:
// literals may not overlap, so every placeholder value has a non-negative
// length. Alignments whose literals share bytes are dropped even when the
// ends increase; "b{z}ba" against "ba" has no mapping rather than
// {z: ""}, because "b" and "ba" would both claim the leading "b".
type enumerator struct {
	ends     [][]int
	lens     []int
	limit    int
	examined int
}

// newEnumerator prepares an enumerator over the given occurrence lists.
// lens holds the byte length of each literal.
func newEnumerator(ends [][]int, lens []int, limit int) *enumerator {
	return &enumerator{ends: ends, lens: lens, limit: limit}
}

// walk calls visit for every accepted alignment. The slice passed to visit
// is reused between calls. walk stops early when the budget runs out
// (ErrBudgetExceeded) or ctx is done.
func (e *enumerator) walk(ctx context.Context, visit func(ends []int)) error {
	if len(e.ends) == 0 {
		return nil
	}
	cur := make([]int, len(e.ends))
	return e.descend(ctx, 0, cur, visit)
}

func (e *enumerator) descend(ctx context.Context, level int, cur []int, visit func([]int)) error {
	if level == len(e.ends) {
		visit(cur)
		return nil
	}

	list := e.ends[level]
	from := 0
	if level > 0 {
		from, _ = slices.BinarySearch(list, cur[level-1]+max(e.lens[level], 1))
	}

	for _, end := range list[from:] {
		e.examined++
		if e.limit > 0 && e.examined > e.limit {
			return ErrBudgetExceeded
		}
		if e.examined%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		cur[level] = end
		if err := e.descend(ctx, level+1, cur, visit); err != nil {
			return err
		}
	}
	return nil
}
