package annotation

import (
	"fmt"
	"sort"
)

const RowsPerPage = 15

type Interval struct {
	Start     int      `json:"start"`
	End       int      `json:"end"`
	StartTime float64  `json:"startTime"`
	EndTime   float64  `json:"endTime"`
	Behavior  Behavior `json:"behavior"`
	Auto      bool     `json:"auto"`
}

// Row is one line of the displayed table. Index addresses the canonical
// insertion-ordered list, not the sorted view.
type Row struct {
	Index int `json:"index"`
	Interval
}

type PageView struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	Total      int   `json:"total"`
	Rows       []Row `json:"rows"`
}

// Store holds committed intervals in insertion order together with the page
// index of the table view.
type Store struct {
	intervals []Interval
	page      int
}

func (s *Store) Len() int { return len(s.intervals) }

func (s *Store) Page() int { return s.page }

// All returns a copy of the canonical list.
func (s *Store) All() []Interval {
	out := make([]Interval, len(s.intervals))
	copy(out, s.intervals)
	return out
}

func (s *Store) Append(iv Interval) {
	s.intervals = append(s.intervals, iv)
}

func (s *Store) Get(index int) (Interval, error) {
	if index < 0 || index >= len(s.intervals) {
		return Interval{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return s.intervals[index], nil
}

func (s *Store) UpdateBehavior(index int, b Behavior) error {
	if index < 0 || index >= len(s.intervals) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	s.intervals[index].Behavior = b
	return nil
}

// Remove deletes the interval at index. When the current page no longer has
// any rows the page index steps back by one.
func (s *Store) Remove(index int) error {
	if index < 0 || index >= len(s.intervals) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	s.intervals = append(s.intervals[:index], s.intervals[index+1:]...)
	if s.page > 0 && s.page*RowsPerPage >= len(s.intervals) {
		s.page--
	}
	return nil
}

func (s *Store) Reset() {
	s.intervals = nil
	s.page = 0
}

func (s *Store) TotalPages() int {
	return (len(s.intervals) + RowsPerPage - 1) / RowsPerPage
}

func (s *Store) SetPage(p int) {
	last := s.TotalPages() - 1
	if p > last {
		p = last
	}
	if p < 0 {
		p = 0
	}
	s.page = p
}

func (s *Store) NextPage() { s.SetPage(s.page + 1) }

func (s *Store) PrevPage() { s.SetPage(s.page - 1) }

// View renders the current page of the table: intervals sorted by start frame
// descending, ties kept in insertion order.
func (s *Store) View() PageView {
	rows := make([]Row, len(s.intervals))
	for i, iv := range s.intervals {
		rows[i] = Row{Index: i, Interval: iv}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Start > rows[j].Start
	})

	from := s.page * RowsPerPage
	if from > len(rows) {
		from = len(rows)
	}
	to := from + RowsPerPage
	if to > len(rows) {
		to = len(rows)
	}

	return PageView{
		Page:       s.page,
		TotalPages: s.TotalPages(),
		Total:      len(rows),
		Rows:       rows[from:to],
	}
}
