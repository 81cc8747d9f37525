package contracts

import "time"

// Task change actions carried by TaskEvent.
const (
	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
	TaskDeleted = "task.deleted"
	TaskShared  = "task.shared"
)

// TaskEvent is published after every successful task mutation. Delivery is
// best-effort; consumers must tolerate gaps.
type TaskEvent struct {
	EventID     string    `json:"event_id"`
	TaskID      string    `json:"task_id"`
	Action      string    `json:"action"`
	ActorUserID string    `json:"actor_user_id"`
	Title       string    `json:"title"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Subject returns the NATS subject a TaskEvent is published on.
func (e TaskEvent) Subject() string {
	return "app.task.event." + e.Action
}
