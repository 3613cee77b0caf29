package world

// ActionStatus is the lifecycle status of an ActionInstance (spec §3
// "ActionInstance").
type ActionStatus int

const (
	StatusRunning ActionStatus = iota
	StatusCompleted
	StatusFailed
	StatusCancelled
	StatusInterrupted
)

func (s ActionStatus) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	case StatusInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status ends the ActionInstance's lifetime
// (anything but StatusRunning, spec §4.2 "step... MUST return COMPLETED,
// FAILED, CANCELLED, INTERRUPTED, or RUNNING").
func (s ActionStatus) Terminal() bool {
	return s != StatusRunning
}

// ActionPlan is a not-yet-promoted action request on an agent's queue (spec
// §3 "ActionPlan"). Plans are pure data; action.Registry resolves ActionName
// to behavior at promotion time.
type ActionPlan struct {
	ActionName     string
	Params         map[string]any
	Priority       int
	ExpiryMonth    *int // nil means no expiry
	MaxRetries     int
	AttemptedCount int
}

// Expired reports whether clockNow has passed this plan's expiry (spec §3
// "Expired plans (clock > expiry_month) are skipped").
func (p ActionPlan) Expired(clockNow int) bool {
	return p.ExpiryMonth != nil && clockNow > *p.ExpiryMonth
}

// ActionInstance is the promoted, currently-running action occupying an
// agent's single slot (spec §3 "ActionInstance"). Object holds the
// per-execution mutable state owned by the action type (start_month,
// cached async handle, collected results, ...); it implements
// action.Instance but world does not import action to avoid a cycle, so it
// is stored as `any` and type-asserted by the action package.
type ActionInstance struct {
	ActionName string
	Params     map[string]any
	Status     ActionStatus
	Object     any
}
