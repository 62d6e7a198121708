// internal/app/system/paging/paging.go

// Package paging implements look-ahead keyset pagination for the admin
// list pages. Lists fetch PageSize+1 rows sorted on a folded text field
// plus _id, then trim the extra row to learn whether a further page
// exists.
package paging

import (
	"net/http"
	"strconv"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PageSize is the number of rows shown per page on the schools and
// teachers lists.
const PageSize = 50

// LimitPlusOne is the Find limit for look-ahead fetches: one row more
// than the page so the trailing row reveals whether a next page exists.
func LimitPlusOne() int64 { return PageSize + 1 }

// ParseStart reads the 1-based "start" query parameter used for the
// "showing X-Y of Z" range. Missing or bogus values mean the first row.
func ParseStart(r *http.Request) int {
	n, err := strconv.Atoi(query.Get(r, "start"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Result reports whether neighboring pages exist after TrimPage.
type Result struct {
	HasPrev bool
	HasNext bool
}

// TrimPage drops the look-ahead row from a fetched slice, in place, and
// returns the prev/next indicators.
//
// Paging backwards (before set) the extra row is the leading one after
// Reverse, and its presence means an earlier page exists; HasNext is
// always true because the cursor came from a later page. Paging
// forwards, the extra trailing row means a later page exists, and
// HasPrev holds exactly when an after cursor was followed to get here.
func TrimPage[T any](rows *[]T, before, after string) Result {
	extra := len(*rows) > PageSize
	if before != "" {
		if extra {
			*rows = (*rows)[1:]
		}
		return Result{HasPrev: extra, HasNext: true}
	}
	if extra {
		*rows = (*rows)[:PageSize]
	}
	return Result{HasPrev: after != "", HasNext: extra}
}

// Range carries the 1-based display range for a page and the start
// values its prev/next links should carry.
type Range struct {
	Start     int // first row shown, 0 when the page is empty
	End       int // last row shown, 0 when the page is empty
	PrevStart int
	NextStart int
}

// ComputeRange derives the display range from the current start index
// and the number of rows actually shown.
func ComputeRange(start, shown int) Range {
	if shown == 0 {
		return Range{PrevStart: 1, NextStart: 1}
	}
	prev := start - PageSize
	if prev < 1 {
		prev = 1
	}
	return Range{
		Start:     start,
		End:       start + shown - 1,
		PrevStart: prev,
		NextStart: start + shown,
	}
}

// Direction selects which way a keyset fetch walks the sort order.
type Direction int

const (
	Forward  Direction = iota // ascending sort, cursor condition "gt"
	Backward                  // descending sort, cursor condition "lt"
)

// KeysetConfig is the decoded pagination state for one list request.
type KeysetConfig struct {
	Direction Direction
	SortOrder int // 1 ascending, -1 descending
	Cursor    *wafflemongo.Cursor
}

// ConfigureKeyset picks the direction from the before/after query
// values and decodes whichever cursor applies. A before cursor wins
// when both are present.
func ConfigureKeyset(before, after string) KeysetConfig {
	if before != "" {
		cfg := KeysetConfig{Direction: Backward, SortOrder: -1}
		if c, ok := wafflemongo.DecodeCursor(before); ok {
			cfg.Cursor = &c
		}
		return cfg
	}
	cfg := KeysetConfig{Direction: Forward, SortOrder: 1}
	if after != "" {
		if c, ok := wafflemongo.DecodeCursor(after); ok {
			cfg.Cursor = &c
		}
	}
	return cfg
}

// ApplyToFind sets the compound sort (sortField then _id, same order)
// and the look-ahead limit on the Find options.
func (cfg KeysetConfig) ApplyToFind(find *options.FindOptions, sortField string) {
	find.SetSort(bson.D{
		{Key: sortField, Value: cfg.SortOrder},
		{Key: "_id", Value: cfg.SortOrder},
	}).SetLimit(LimitPlusOne())
}

// KeysetWindow returns the filter clause that positions the fetch
// relative to the cursor row, or nil on the first page.
func (cfg KeysetConfig) KeysetWindow(sortField string) bson.M {
	if cfg.Cursor == nil {
		return nil
	}
	dir := "gt"
	if cfg.Direction == Backward {
		dir = "lt"
	}
	return wafflemongo.KeysetWindow(sortField, dir, cfg.Cursor.CI, cfg.Cursor.ID)
}

// Reverse restores display order after a backward fetch, which sorts
// descending.
func Reverse[T any](rows []T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}

// BuildCursors encodes the prev and next cursors from the first and
// last rows of the trimmed page. keyFn and idFn pull the sort key and
// _id out of a row. Both cursors are empty for an empty page.
func BuildCursors[T any](rows []T, keyFn func(T) string, idFn func(T) primitive.ObjectID) (prev, next string) {
	if len(rows) == 0 {
		return "", ""
	}
	first, last := rows[0], rows[len(rows)-1]
	return wafflemongo.EncodeCursor(keyFn(first), idFn(first)),
		wafflemongo.EncodeCursor(keyFn(last), idFn(last))
}
