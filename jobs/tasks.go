package jobs

import "github.com/hibiken/asynq"

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskRecurringCycle is the task type for one scheduler pass over
	// due recurring transactions.
	TaskRecurringCycle = "recurring:cycle"
)

// NewRecurringCycleTask constructs an Asynq task for one cycle. The
// task carries no payload: scheduler registrations reuse a single task
// across firings, so the handler stamps each execution with its own
// cycle id instead. Cycles are safe to repeat because processed items
// advance their next-run date.
func NewRecurringCycleTask() *asynq.Task {
	return asynq.NewTask(TaskRecurringCycle, nil)
}
