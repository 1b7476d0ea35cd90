package annotation

import "testing"

func fillStore(n int) *Store {
	st := &Store{}
	for i := 0; i < n; i++ {
		st.Append(Interval{Start: i, End: i + 1, Behavior: Attacking})
	}
	return st
}

func TestStoreViewSortsDescending(t *testing.T) {
	st := &Store{}
	st.Append(Interval{Start: 5, End: 6})
	st.Append(Interval{Start: 9, End: 10})
	st.Append(Interval{Start: 5, End: 8})
	st.Append(Interval{Start: 1, End: 2})

	view := st.View()
	wantIdx := []int{1, 0, 2, 3}
	if len(view.Rows) != len(wantIdx) {
		t.Fatalf("Expected %d rows, got %d", len(wantIdx), len(view.Rows))
	}
	for i, row := range view.Rows {
		if row.Index != wantIdx[i] {
			t.Errorf("row %d: expected canonical index %d, got %d", i, wantIdx[i], row.Index)
		}
	}
	if all := st.All(); all[0].Start != 5 || all[1].Start != 9 {
		t.Errorf("Expected canonical order untouched, got %+v", all)
	}
}

func TestStorePaging(t *testing.T) {
	st := fillStore(40)

	if st.TotalPages() != 3 {
		t.Fatalf("Expected 3 pages, got %d", st.TotalPages())
	}
	st.NextPage()
	st.NextPage()
	st.NextPage()
	if st.Page() != 2 {
		t.Fatalf("Expected page clamped to 2, got %d", st.Page())
	}
	if rows := st.View().Rows; len(rows) != 10 {
		t.Errorf("Expected 10 rows on last page, got %d", len(rows))
	}
	st.PrevPage()
	st.PrevPage()
	st.PrevPage()
	if st.Page() != 0 {
		t.Errorf("Expected page clamped to 0, got %d", st.Page())
	}
}

func TestStoreRemoveStepsBackFromEmptiedPage(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		page     int
		wantPage int
	}{
		{"last row on final page", 16, 1, 0},
		{"final page keeps rows", 17, 1, 1},
		{"first page never below zero", 1, 0, 0},
		{"full final page", 30, 1, 1},
		{"third page emptied", 31, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := fillStore(tt.count)
			st.SetPage(tt.page)
			if st.Page() != tt.page {
				t.Fatalf("SetPage(%d) landed on %d", tt.page, st.Page())
			}

			if err := st.Remove(tt.count - 1); err != nil {
				t.Fatalf("Remove() error = %v", err)
			}
			if st.Page() != tt.wantPage {
				t.Errorf("Expected page %d, got %d", tt.wantPage, st.Page())
			}
		})
	}
}

func TestStoreEmptyView(t *testing.T) {
	st := &Store{}
	view := st.View()
	if view.Total != 0 || len(view.Rows) != 0 || view.TotalPages != 0 || view.Page != 0 {
		t.Errorf("Unexpected empty view %+v", view)
	}
}
