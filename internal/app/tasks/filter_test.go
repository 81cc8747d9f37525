package tasks

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func dueAt(t time.Time) *time.Time { return &t }

func TestMatchesStatusAndPriority(t *testing.T) {
	task := Task{Status: StatusTodo, Priority: PriorityHigh}

	f := DefaultFilters()
	if !Matches(task, f, testNow) {
		t.Fatal("all filters should pass every task")
	}

	f.Status = StatusDone
	if Matches(task, f, testNow) {
		t.Fatal("status filter should exclude non-matching task")
	}

	f = DefaultFilters()
	f.Priority = PriorityLow
	if Matches(task, f, testNow) {
		t.Fatal("priority filter should exclude non-matching task")
	}
}

func TestDueBuckets(t *testing.T) {
	yesterday := Task{Status: StatusTodo, Priority: PriorityLow, DueDate: dueAt(testNow.Add(-24 * time.Hour))}
	earlierToday := Task{Status: StatusTodo, Priority: PriorityLow, DueDate: dueAt(testNow.Add(-2 * time.Hour))}
	tomorrow := Task{Status: StatusTodo, Priority: PriorityLow, DueDate: dueAt(testNow.Add(24 * time.Hour))}
	undated := Task{Status: StatusTodo, Priority: PriorityLow}

	overdue := DefaultFilters()
	overdue.Due = DueOverdue
	if !Matches(yesterday, overdue, testNow) {
		t.Fatal("task due yesterday should be overdue")
	}
	if Matches(earlierToday, overdue, testNow) {
		t.Fatal("task due today should not be overdue")
	}
	if Matches(tomorrow, overdue, testNow) {
		t.Fatal("task due tomorrow should not be overdue")
	}
	if !Matches(undated, overdue, testNow) {
		t.Fatal("task without due date passes any due bucket")
	}

	today := DefaultFilters()
	today.Due = DueToday
	if !Matches(earlierToday, today, testNow) {
		t.Fatal("task due earlier today should be in today bucket")
	}
	if Matches(yesterday, today, testNow) || Matches(tomorrow, today, testNow) {
		t.Fatal("today bucket should only include the current calendar day")
	}

	upcoming := DefaultFilters()
	upcoming.Due = DueUpcoming
	if !Matches(earlierToday, upcoming, testNow) {
		t.Fatal("task due today counts as upcoming")
	}
	if !Matches(tomorrow, upcoming, testNow) {
		t.Fatal("task due tomorrow counts as upcoming")
	}
	if Matches(yesterday, upcoming, testNow) {
		t.Fatal("task due yesterday is not upcoming")
	}
}

func TestSharedWithMe(t *testing.T) {
	f := DefaultFilters()
	f.SharedWithMe = true

	if Matches(Task{SharedWith: []string{}, Status: StatusTodo, Priority: PriorityLow}, Filters{Status: FilterAll, Priority: FilterAll, Due: FilterAll, SharedWithMe: true}, testNow) {
		t.Fatal("unshared task should be excluded")
	}
	if !Matches(Task{SharedWith: []string{"a@x.com"}, Status: StatusTodo, Priority: PriorityLow}, f, testNow) {
		t.Fatal("shared task should pass")
	}
}

func TestFilterSubsetAndIdempotent(t *testing.T) {
	collection := []Task{
		{ID: "1", Status: StatusTodo, Priority: PriorityHigh},
		{ID: "2", Status: StatusDone, Priority: PriorityLow},
		{ID: "3", Status: StatusTodo, Priority: PriorityLow},
	}
	f := DefaultFilters()
	f.Status = StatusTodo

	once := Filter(collection, f, testNow)
	if len(once) != 2 || once[0].ID != "1" || once[1].ID != "3" {
		t.Fatalf("unexpected filtered view: %+v", once)
	}

	twice := Filter(once, f, testNow)
	if len(twice) != len(once) {
		t.Fatalf("filter is not idempotent: %d vs %d", len(twice), len(once))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("filter reordered tasks at %d", i)
		}
	}
}

func TestPaginateConcatReproducesFiltered(t *testing.T) {
	filtered := make([]Task, 12)
	for i := range filtered {
		filtered[i] = Task{ID: string(rune('a' + i))}
	}

	page1 := Paginate(filtered, 1, 10)
	page2 := Paginate(filtered, 2, 10)
	if len(page1) != 10 {
		t.Fatalf("page 1 should have 10 tasks, got %d", len(page1))
	}
	if len(page2) != 2 {
		t.Fatalf("page 2 should have 2 tasks, got %d", len(page2))
	}

	concat := append(page1, page2...)
	if len(concat) != len(filtered) {
		t.Fatalf("concatenated pages lost tasks: %d vs %d", len(concat), len(filtered))
	}
	for i := range filtered {
		if concat[i].ID != filtered[i].ID {
			t.Fatalf("pages do not reproduce filtered view at %d", i)
		}
	}

	if got := Paginate(filtered, 3, 10); len(got) != 0 {
		t.Fatalf("out-of-range page should be empty, got %d tasks", len(got))
	}
}

func TestTotalPages(t *testing.T) {
	if got := TotalPages(0, 10); got != 1 {
		t.Fatalf("empty collection should still have 1 page, got %d", got)
	}
	if got := TotalPages(10, 10); got != 1 {
		t.Fatalf("exactly one page expected, got %d", got)
	}
	if got := TotalPages(11, 10); got != 2 {
		t.Fatalf("expected 2 pages, got %d", got)
	}
}
