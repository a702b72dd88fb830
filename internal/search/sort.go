package search

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"
)

type SortKey string

const (
	CreatedAsc   SortKey = "created_at"
	CreatedDesc  SortKey = "-created_at"
	BidCountAsc  SortKey = "bid_count"
	BidCountDesc SortKey = "-bid_count"
)

var ErrUnknownSortKey = errors.New("unknown sort key")

func ValidSortKey(k SortKey) bool {
	switch k {
	case CreatedAsc, CreatedDesc, BidCountAsc, BidCountDesc:
		return true
	default:
		return false
	}
}

// Dated is implemented by every list entity that carries a creation timestamp.
type Dated interface {
	CreatedTime() time.Time
}

// Counted is implemented by entities that can be ordered by number of bids.
type Counted interface {
	BidTotal() int
}

var epoch = time.Unix(0, 0).UTC()

// Sort returns a sorted copy of items. Missing timestamps sort as the unix epoch.
// An empty key returns the items unchanged.
func Sort[T Dated](items []T, key SortKey) ([]T, error) {
	if len(key) == 0 {
		return items, nil
	}

	var compare func(a, b T) int
	switch key {
	case CreatedAsc:
		compare = func(a, b T) int { return sortTime(a).Compare(sortTime(b)) }
	case CreatedDesc:
		compare = func(a, b T) int { return sortTime(b).Compare(sortTime(a)) }
	case BidCountAsc:
		compare = func(a, b T) int { return cmp.Compare(bidTotal(a), bidTotal(b)) }
	case BidCountDesc:
		compare = func(a, b T) int { return cmp.Compare(bidTotal(b), bidTotal(a)) }
	default:
		return nil, fmt.Errorf("search.Sort: %w: %s", ErrUnknownSortKey, key)
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, compare)
	return sorted, nil
}

func sortTime[T Dated](item T) time.Time {
	t := item.CreatedTime()
	if t.IsZero() {
		return epoch
	}
	return t
}

func bidTotal[T any](item T) int {
	if c, ok := any(item).(Counted); ok {
		return c.BidTotal()
	}
	return 0
}
