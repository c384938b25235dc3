package retemplate

import (
	"cmp"
	"fmt"
	"slices"
)

// PickLongest returns the mapping with the largest Score.
// On ties the mapping appearing last in rs wins.
// Returns ErrEmptyResultSet if rs is empty.
func PickLongest(rs ResultSet) (Mapping, error) {
	if len(rs) == 0 {
		return Mapping{}, ErrEmptyResultSet
	}
	best, bestScore := 0, rs[0].Score()
	for i := 1; i < len(rs); i++ {
		if s := rs[i].Score(); s >= bestScore {
			best, bestScore = i, s
		}
	}
	return rs[best], nil
}

// PickShortest returns the mapping with the smallest Score.
// On ties the mapping appearing first in rs wins.
// Returns ErrEmptyResultSet if rs is empty.
func PickShortest(rs ResultSet) (Mapping, error) {
	if len(rs) == 0 {
		return Mapping{}, ErrEmptyResultSet
	}
	best, bestScore := 0, rs[0].Score()
	for i := 1; i < len(rs); i++ {
		if s := rs[i].Score(); s < bestScore {
			best, bestScore = i, s
		}
	}
	return rs[best], nil
}

// SortByScore returns a copy of rs ordered by ascending Score.
// Mappings with equal scores keep their enumeration order.
func SortByScore(rs ResultSet) ResultSet {
	out := slices.Clone(rs)
	slices.SortStableFunc(out, func(a, b Mapping) int {
		return cmp.Compare(a.Score(), b.Score())
	})
	return out
}

// Picker selects one mapping from a result set.
type Picker func(ResultSet) (Mapping, error)

// PickerFor returns the Picker named "longest" or "shortest".
func PickerFor(name string) (Picker, error) {
	switch name {
	case "longest":
		return PickLongest, nil
	case "shortest":
		return PickShortest, nil
	default:
		return nil, fmt.Errorf("unknown pick %q: want longest or shortest", name)
	}
}
