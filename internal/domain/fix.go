package domain

// FixAction is the closed set of concrete repairs the planner can suggest.
type FixAction int

const (
	ActionSetChannelCount FixAction = iota
	ActionIncreaseChannelCount
	ActionRerouteTrack
	ActionSelectChannelOrder
)

func (a FixAction) String() string {
	switch a {
	case ActionSetChannelCount:
		return "SetChannelCount"
	case ActionIncreaseChannelCount:
		return "IncreaseChannelCount"
	case ActionRerouteTrack:
		return "RerouteTrack"
	case ActionSelectChannelOrder:
		return "SelectChannelOrder"
	default:
		return "Unknown"
	}
}

// RouteTarget is one send re-assignment inside a RerouteTrack fix: the send
// at SendIndex gets its destination endpoint moved to DestChannel, keeping
// its original mono/stereo mode.
type RouteTarget struct {
	SendIndex   int
	Mode        ChannelMode
	DestChannel int // 1-based
}

// FixOption is one alternative parameter set for a suggestion that requires
// an explicit caller choice.
type FixOption struct {
	Label  string
	Order  ChannelOrder
	Tracks []int // arena indices of tracks that would be rewritten
}

// FixSuggestion is one concrete, parameterized repair for one issue.
//
// Suggestions with RequiresChoice set are never applied directly: they carry
// exactly two Options and must go through ResolveChoice. This is a hard
// invariant of the applier, not a default.
type FixSuggestion struct {
	ID     string // stable within one validation run, e.g. "cap-low-3"
	Action FixAction
	Issue  Issue

	// TrackIndex is the arena index of the track the action mutates
	// (MasterBusIndex for the master bus). Unused for SelectChannelOrder.
	TrackIndex int

	// ChannelCount is the new width for SetChannelCount and
	// IncreaseChannelCount.
	ChannelCount int

	// Routing is the full re-assignment vector for RerouteTrack, applied as
	// one atomic change.
	Routing []RouteTarget

	Reason         string
	RequiresChoice bool
	Options        []FixOption
}

// OptionByOrder finds the option selecting a given convention.
func (s *FixSuggestion) OptionByOrder(order ChannelOrder) (*FixOption, bool) {
	for i := range s.Options {
		if s.Options[i].Order == order {
			return &s.Options[i], true
		}
	}
	return nil, false
}

// HasOption reports whether opt is one of the suggestion's own options.
func (s *FixSuggestion) HasOption(opt *FixOption) bool {
	if opt == nil {
		return false
	}
	for i := range s.Options {
		if &s.Options[i] == opt || s.Options[i].Order == opt.Order {
			return true
		}
	}
	return false
}
