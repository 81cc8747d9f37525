package tasks

import "time"

// Matches reports whether a task passes every active filter dimension.
// The due-date bucket is only evaluated when the task has a due date; a
// task without one passes any due filter.
func Matches(t Task, f Filters, now time.Time) bool {
	if f.Status != FilterAll && t.Status != f.Status {
		return false
	}
	if f.Priority != FilterAll && t.Priority != f.Priority {
		return false
	}
	if f.Due != FilterAll && t.DueDate != nil {
		due := *t.DueDate
		switch f.Due {
		case DueToday:
			if !sameDay(due, now) {
				return false
			}
		case DueOverdue:
			if !due.Before(now) || sameDay(due, now) {
				return false
			}
		case DueUpcoming:
			if due.Before(now) && !sameDay(due, now) {
				return false
			}
		}
	}
	if f.SharedWithMe && len(t.SharedWith) == 0 {
		return false
	}
	return true
}

// Filter preserves collection order (most-recent-created-first); no
// secondary sort is applied.
func Filter(collection []Task, f Filters, now time.Time) []Task {
	out := make([]Task, 0, len(collection))
	for _, t := range collection {
		if Matches(t, f, now) {
			out = append(out, t)
		}
	}
	return out
}

// Paginate slices filtered by (page-1)*size .. page*size.
func Paginate(filtered []Task, page, size int) []Task {
	if size <= 0 || page < 1 {
		return []Task{}
	}
	start := (page - 1) * size
	if start >= len(filtered) {
		return []Task{}
	}
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}
	out := make([]Task, end-start)
	copy(out, filtered[start:end])
	return out
}

// TotalPages is ceil(count/size), never less than 1 so that page 1 is
// always addressable even over an empty collection.
func TotalPages(count, size int) int {
	if size <= 0 {
		return 1
	}
	pages := (count + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
