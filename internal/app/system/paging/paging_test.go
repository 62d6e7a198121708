package paging

import (
	"net/http/httptest"
	"testing"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func nRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}

func TestParseStart(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"start=51", 51},
		{"start=0", 1},
		{"start=-3", 1},
		{"start=abc", 1},
	}
	for _, tc := range cases {
		r := httptest.NewRequest("GET", "/organizations?"+tc.query, nil)
		if got := ParseStart(r); got != tc.want {
			t.Errorf("ParseStart(?%s) = %d, want %d", tc.query, got, tc.want)
		}
	}
}

func TestTrimPage_Forward(t *testing.T) {
	rows := nRows(PageSize + 1)
	res := TrimPage(&rows, "", "")
	if len(rows) != PageSize {
		t.Fatalf("rows: got %d, want %d", len(rows), PageSize)
	}
	if rows[0] != 0 {
		t.Errorf("forward trim must drop the trailing row, first = %d", rows[0])
	}
	if res.HasPrev || !res.HasNext {
		t.Errorf("first page with look-ahead row: got %+v", res)
	}

	rows = nRows(3)
	res = TrimPage(&rows, "", "somecursor")
	if len(rows) != 3 {
		t.Fatalf("short page must not be trimmed, got %d rows", len(rows))
	}
	if !res.HasPrev || res.HasNext {
		t.Errorf("last page reached via after cursor: got %+v", res)
	}
}

func TestTrimPage_Backward(t *testing.T) {
	rows := nRows(PageSize + 1)
	res := TrimPage(&rows, "somecursor", "")
	if len(rows) != PageSize {
		t.Fatalf("rows: got %d, want %d", len(rows), PageSize)
	}
	if rows[0] != 1 {
		t.Errorf("backward trim must drop the leading row, first = %d", rows[0])
	}
	if !res.HasPrev || !res.HasNext {
		t.Errorf("middle page reached via before cursor: got %+v", res)
	}

	rows = nRows(2)
	res = TrimPage(&rows, "somecursor", "")
	if res.HasPrev || !res.HasNext {
		t.Errorf("first page reached backwards: got %+v", res)
	}
}

func TestTrimPage_Empty(t *testing.T) {
	var rows []int
	if res := TrimPage(&rows, "", ""); res.HasPrev || res.HasNext {
		t.Errorf("empty list: got %+v", res)
	}
}

func TestComputeRange(t *testing.T) {
	cases := []struct {
		name  string
		start int
		shown int
		want  Range
	}{
		{"empty", 1, 0, Range{PrevStart: 1, NextStart: 1}},
		{"first page full", 1, PageSize,
			Range{Start: 1, End: PageSize, PrevStart: 1, NextStart: PageSize + 1}},
		{"first page partial", 1, 7,
			Range{Start: 1, End: 7, PrevStart: 1, NextStart: 8}},
		{"third page", 2*PageSize + 1, PageSize,
			Range{Start: 2*PageSize + 1, End: 3 * PageSize, PrevStart: PageSize + 1, NextStart: 3*PageSize + 1}},
	}
	for _, tc := range cases {
		if got := ComputeRange(tc.start, tc.shown); got != tc.want {
			t.Errorf("%s: ComputeRange(%d, %d) = %+v, want %+v", tc.name, tc.start, tc.shown, got, tc.want)
		}
	}
}

func TestConfigureKeyset(t *testing.T) {
	id := primitive.NewObjectID()
	cur := wafflemongo.EncodeCursor("fence school", id)

	cfg := ConfigureKeyset("", "")
	if cfg.Direction != Forward || cfg.SortOrder != 1 || cfg.Cursor != nil {
		t.Errorf("first page: got %+v", cfg)
	}
	if cfg.KeysetWindow("name_ci") != nil {
		t.Error("first page must not produce a cursor window")
	}

	cfg = ConfigureKeyset("", cur)
	if cfg.Direction != Forward || cfg.SortOrder != 1 {
		t.Errorf("after cursor: got %+v", cfg)
	}
	if cfg.Cursor == nil || cfg.Cursor.CI != "fence school" || cfg.Cursor.ID != id {
		t.Errorf("after cursor did not decode: %+v", cfg.Cursor)
	}

	cfg = ConfigureKeyset(cur, "ignored")
	if cfg.Direction != Backward || cfg.SortOrder != -1 {
		t.Errorf("before cursor wins over after: got %+v", cfg)
	}
	if cfg.KeysetWindow("name_ci") == nil {
		t.Error("expected a cursor window once a cursor decoded")
	}
}

func TestReverse(t *testing.T) {
	rows := []int{1, 2, 3, 4}
	Reverse(rows)
	for i, want := range []int{4, 3, 2, 1} {
		if rows[i] != want {
			t.Fatalf("Reverse: got %v", rows)
		}
	}

	odd := []int{1, 2, 3}
	Reverse(odd)
	if odd[0] != 3 || odd[1] != 2 || odd[2] != 1 {
		t.Errorf("Reverse odd length: got %v", odd)
	}
}

func TestBuildCursors(t *testing.T) {
	type row struct {
		NameCI string
		ID     primitive.ObjectID
	}
	keyFn := func(r row) string { return r.NameCI }
	idFn := func(r row) primitive.ObjectID { return r.ID }

	if prev, next := BuildCursors(nil, keyFn, idFn); prev != "" || next != "" {
		t.Errorf("empty page: got (%q, %q)", prev, next)
	}

	rows := []row{
		{NameCI: "alpha high", ID: primitive.NewObjectID()},
		{NameCI: "zephyr academy", ID: primitive.NewObjectID()},
	}
	prev, next := BuildCursors(rows, keyFn, idFn)

	c, ok := wafflemongo.DecodeCursor(prev)
	if !ok || c.CI != "alpha high" || c.ID != rows[0].ID {
		t.Errorf("prev cursor: got %+v (ok=%v)", c, ok)
	}
	c, ok = wafflemongo.DecodeCursor(next)
	if !ok || c.CI != "zephyr academy" || c.ID != rows[1].ID {
		t.Errorf("next cursor: got %+v (ok=%v)", c, ok)
	}
}
