package tracker

import (
	"math"

	"github.com/jmhart/pulse/internal/db"
	"github.com/jmhart/pulse/internal/models"
)

// recomputeTask rewrites a task's derived fields from its persisted rows:
// logged minutes are the sum of closed entry durations (a running entry
// contributes zero until closed), and the completion percentage is derived
// from subtasks when any exist. The function reads only from the store, so
// it is idempotent and safe to run again after a retry.
//
// Callers run it inside the same transaction as the mutation that made the
// fields stale; no reader observes a task with stale aggregates after a
// successful service call.
func recomputeTask(s *db.Store, taskID int64) (*models.Task, error) {
	logged, err := s.SumClosedMinutes(taskID)
	if err != nil {
		return nil, err
	}

	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	pct := task.CompletionPct
	done, total, err := s.SubtaskCounts(taskID)
	if err != nil {
		return nil, err
	}
	if total > 0 {
		pct = int(math.Round(float64(done) / float64(total) * 100))
	}

	if err := s.SetTaskDerived(taskID, logged, pct); err != nil {
		return nil, err
	}

	task.LoggedMinutes = logged
	task.CompletionPct = pct
	return task, nil
}
