package ports

import "routecheck/internal/domain"

// HostSend is one raw routing connection as the host stores it: destination
// identity plus the raw source/destination channel encodings.
type HostSend struct {
	DestID  domain.TrackID
	SrcRaw  int
	DstRaw  int
	Enabled bool
}

// HostTrack is one track as reported by the host, before any analysis.
type HostTrack struct {
	ID   domain.TrackID
	Name string
	// ChannelCount is the authored output width, always even in the host.
	ChannelCount int
	// FolderDepth is the host's folder marker in track-list order: 1 starts
	// a folder, 0 stays at the current depth, negative values close one or
	// more folders after this track.
	FolderDepth int
	// MainSend is true when the track's main output feeds its folder parent
	// (or the master bus when top-level).
	MainSend bool
	// Order is the channel-ordering convention recorded on the track by the
	// authoring tool, OrderUnknown when none is recorded. For ambiguous
	// widths it overrides the ordering the authoring engine declares.
	Order domain.ChannelOrder
	Sends []HostSend
}

// Host is the boundary to the live track graph. The engine is its only
// mutator during a validation cycle; all mutations go through one logical
// transaction so the host can expose them as a single undo step.
//
// Host implementations are not required to be safe for concurrent use; the
// engine is single-threaded by contract.
type Host interface {
	// Tracks snapshots the live track list in host order.
	Tracks() ([]HostTrack, error)

	// Exists reports whether a track identity still resolves. A track can
	// vanish between Tracks and a later call when the host UI deletes it;
	// the scanner skips such entries rather than failing the scan.
	Exists(id domain.TrackID) bool

	// MasterChannelCount returns the master bus output width.
	MasterChannelCount() int

	// SetChannelCount changes a track's output width. The host may refuse
	// (track gone, width unsupported); that is an application-time failure,
	// not a programming error.
	SetChannelCount(id domain.TrackID, channels int) error

	// SetMasterChannelCount changes the master bus output width.
	SetMasterChannelCount(channels int) error

	// SetSendDestChannel re-points the destination endpoint of the send at
	// sendIndex on track id to a new raw encoding.
	SetSendDestChannel(id domain.TrackID, sendIndex int, raw int) error

	// SetChannelOrder records a channel-ordering convention on a track.
	SetChannelOrder(id domain.TrackID, order domain.ChannelOrder) error

	// Begin opens one logical undo block described for the user. Commit
	// makes its mutations permanent; Rollback discards what it can. Nested
	// transactions are not supported.
	Begin(description string) error
	Commit() error
	Rollback() error
}
