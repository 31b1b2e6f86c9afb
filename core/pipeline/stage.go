package pipeline

// Stage is a state of a pipeline run.
type Stage int

const (
	StageStarted Stage = iota
	StageTracking
	StageAuditing
	StageApproved
	StageBlocked
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageStarted:
		return "started"
	case StageTracking:
		return "tracking"
	case StageAuditing:
		return "auditing"
	case StageApproved:
		return "approved"
	case StageBlocked:
		return "blocked"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no transition leaves s.
func (s Stage) Terminal() bool {
	return s == StageApproved || s == StageBlocked || s == StageFailed
}
