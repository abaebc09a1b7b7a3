package domain

// Severity defines how serious an issue is.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	default:
		return "Unknown"
	}
}

// IssueKind is the closed set of structural problems detection can report.
type IssueKind int

const (
	IssueCapacityTooLow IssueKind = iota
	IssueCapacityExcessive
	IssueOrderConflict
	IssueMisalignment
	IssueOrphanSend
)

func (k IssueKind) String() string {
	switch k {
	case IssueCapacityTooLow:
		return "ChannelCapacityTooLow"
	case IssueCapacityExcessive:
		return "ChannelCapacityExcessive"
	case IssueOrderConflict:
		return "ChannelOrderConflict"
	case IssueMisalignment:
		return "ChannelMisalignment"
	case IssueOrphanSend:
		return "OrphanSend"
	default:
		return "Unknown"
	}
}

// CapacityConflict carries the numbers behind a capacity issue.
type CapacityConflict struct {
	Declared int
	Required int // already rounded to an even count
}

// OrderConflict describes two groups of managed tracks declaring the same
// channel count under disagreeing ordering conventions.
type OrderConflict struct {
	ChannelCount int
	OrderA       ChannelOrder
	OrderB       ChannelOrder
	TracksA      []int // arena indices declared with OrderA
	TracksB      []int // arena indices declared with OrderB
}

// LabelRoute pairs a channel label with the 1-based channel it should (or
// does) land on at the destination.
type LabelRoute struct {
	Label   string
	Channel int
}

// Misalignment records the first label where a managed track's actual
// routing diverges from the reference layout, plus the full expected vector
// so the fix can be applied as one change.
type Misalignment struct {
	Label    string
	Actual   int
	Expected []LabelRoute // one entry per declared label, in layout order
}

// OrphanSendData identifies a send whose destination channel does not exist
// on the destination track.
type OrphanSendData struct {
	SourceIndex  int // arena index of the track owning the send
	SendIndex    int
	DestIndex    int // arena index of the destination track
	Channel      int // resolved 1-based destination channel
	DestChannels int
}

// Issue is one structural problem found by a detection pass. Issues are
// values; a re-scan always yields a fresh set.
type Issue struct {
	Kind        IssueKind
	Severity    Severity
	Description string
	// TrackIndex is the arena index of the affected track, -1 for
	// project-wide issues, -2 for the master bus.
	TrackIndex int

	// Exactly one of these is set, matching Kind.
	Capacity *CapacityConflict
	Order    *OrderConflict
	Misalign *Misalignment
	Orphan   *OrphanSendData
}

// Arena index sentinels for Issue.TrackIndex.
const (
	ProjectWideIndex = -1
	MasterBusIndex   = -2
)
