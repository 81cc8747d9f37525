package tasks

import "time"

// SeedSource generates the demo fixture relative to its clock, so the
// today/overdue/upcoming buckets stay populated no matter when the app
// starts.
type SeedSource struct {
	Now func() time.Time
}

func NewSeedSource() SeedSource {
	return SeedSource{Now: func() time.Time { return time.Now().UTC() }}
}

func (s SeedSource) Tasks() []Task {
	now := s.Now()
	day := 24 * time.Hour
	str := func(v string) *string { return &v }
	at := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}

	return []Task{
		{
			ID:          "1",
			Title:       "Design new landing page",
			Description: str("Create a modern, responsive landing page with hero section, features, and testimonials"),
			Status:      StatusInProgress,
			Priority:    PriorityHigh,
			DueDate:     at(2 * day),
			SharedWith:  []string{"colleague@company.com"},
			CreatedBy:   "user-1",
			CreatedAt:   now.Add(-3 * day),
			UpdatedAt:   now,
		},
		{
			ID:          "2",
			Title:       "Review quarterly reports",
			Description: str("Analyze Q4 performance metrics and prepare presentation for stakeholders"),
			Status:      StatusTodo,
			Priority:    PriorityMedium,
			DueDate:     at(0),
			SharedWith:  []string{"manager@company.com", "analyst@company.com"},
			CreatedBy:   "user-1",
			CreatedAt:   now.Add(-2 * day),
			UpdatedAt:   now.Add(-1 * day),
		},
		{
			ID:          "3",
			Title:       "Update documentation",
			Description: str("Revise API documentation and add new endpoint examples"),
			Status:      StatusDone,
			Priority:    PriorityLow,
			DueDate:     at(-1 * day),
			SharedWith:  []string{},
			CreatedBy:   "user-1",
			CreatedAt:   now.Add(-5 * day),
			UpdatedAt:   now.Add(-1 * day),
		},
		{
			ID:          "4",
			Title:       "Team meeting preparation",
			Description: str("Prepare agenda and materials for weekly team sync"),
			Status:      StatusTodo,
			Priority:    PriorityMedium,
			DueDate:     at(1 * day),
			SharedWith:  []string{},
			CreatedBy:   "user-1",
			CreatedAt:   now.Add(-1 * day),
			UpdatedAt:   now.Add(-1 * day),
		},
		{
			ID:          "5",
			Title:       "Database optimization",
			Description: str("Optimize slow queries and implement proper indexing strategies"),
			Status:      StatusInProgress,
			Priority:    PriorityHigh,
			DueDate:     at(5 * day),
			SharedWith:  []string{"dev@company.com"},
			CreatedBy:   "user-1",
			CreatedAt:   now.Add(-4 * day),
			UpdatedAt:   now,
		},
		{
			ID:          "6",
			Title:       "Client presentation",
			Description: str("Prepare and deliver project status presentation to client stakeholders"),
			Status:      StatusTodo,
			Priority:    PriorityHigh,
			DueDate:     at(-2 * day),
			SharedWith:  []string{"sales@company.com"},
			CreatedBy:   "user-1",
			CreatedAt:   now.Add(-6 * day),
			UpdatedAt:   now.Add(-3 * day),
		},
		{
			ID:          "7",
			Title:       "Code review",
			Description: str("Review pull requests and provide feedback to team members"),
			Status:      StatusDone,
			Priority:    PriorityMedium,
			DueDate:     at(-3 * day),
			SharedWith:  []string{},
			CreatedBy:   "user-1",
			CreatedAt:   now.Add(-7 * day),
			UpdatedAt:   now.Add(-3 * day),
		},
		{
			ID:          "8",
			Title:       "Security audit",
			Description: str("Conduct comprehensive security review of the application"),
			Status:      StatusTodo,
			Priority:    PriorityHigh,
			DueDate:     at(7 * day),
			SharedWith:  []string{"security@company.com"},
			CreatedBy:   "user-1",
			CreatedAt:   now.Add(-2 * day),
			UpdatedAt:   now.Add(-2 * day),
		},
	}
}
