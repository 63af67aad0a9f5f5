package common

type State string

const (
	Successful State = "successful"
	Failed     State = "failed"
	Cancelled  State = "cancelled"
	InProgress State = "in_progress"
	Pending    State = "pending"
	Unknown    State = "unknown"
)

var BestToWorst = []State{Successful, Failed, Cancelled, InProgress, Pending, Unknown}

// GetState maps a Pipelines status code onto a State.
func GetState(code int64) State {
	switch code {
	case 4000, 4005:
		return Pending
	case 4001:
		return InProgress
	case 4002, 4008:
		return Successful
	case 4003, 4004, 4007, 4009:
		return Failed
	case 4006:
		return Cancelled
	default:
		return Unknown
	}
}

func (s State) Index() int {
	for index, state := range BestToWorst {
		if s == state {
			return index
		}
	}
	return -1
}

func (s State) IsWorseThan(state State) bool {
	return s.Index() > state.Index()
}

// Result returns the pipeline stage result text that is mapped onto a Bitbucket build state.
// States that are not final have no result.
func (s State) Result() string {
	switch s {
	case Successful:
		return "Passed"
	case Failed:
		return "Failed"
	case Cancelled:
		return "Cancelled"
	default:
		return ""
	}
}
