package domain

import "fmt"

// ChannelMode distinguishes the two send-endpoint encodings the host uses.
type ChannelMode int

const (
	// ModeStereoPair addresses a pair of adjacent channels by the first one.
	ModeStereoPair ChannelMode = iota
	// ModeMono addresses a single channel.
	ModeMono
)

func (m ChannelMode) String() string {
	switch m {
	case ModeStereoPair:
		return "stereo"
	case ModeMono:
		return "mono"
	default:
		return "unknown"
	}
}

// monoFlag marks a raw endpoint value as a mono channel assignment.
// Values below it are stereo-pair start channels.
const monoFlag = 1024

// ChannelSpec is the normalized form of one send endpoint: a mode plus a
// 1-based channel index (for stereo pairs, the index of the pair's first
// channel). All routing math in the engine works on Channel; the raw host
// encoding never leaks past this type.
type ChannelSpec struct {
	Mode    ChannelMode
	Channel int // 1-based
}

// ParseChannelSpec decodes a raw host endpoint value.
// raw >= 1024 encodes "mono to channel raw-1024" (0-based at the boundary);
// 0 <= raw < 1024 encodes "stereo pair starting at channel raw" (0-based).
func ParseChannelSpec(raw int) (ChannelSpec, error) {
	if raw < 0 {
		return ChannelSpec{}, fmt.Errorf("invalid channel encoding: %d", raw)
	}
	if raw >= monoFlag {
		return ChannelSpec{Mode: ModeMono, Channel: raw - monoFlag + 1}, nil
	}
	return ChannelSpec{Mode: ModeStereoPair, Channel: raw + 1}, nil
}

// Raw re-encodes the spec into the host's representation.
// Raw is the exact inverse of ParseChannelSpec for valid specs.
func (s ChannelSpec) Raw() int {
	if s.Mode == ModeMono {
		return monoFlag + s.Channel - 1
	}
	return s.Channel - 1
}

// WithChannel returns a copy of the spec addressed at a different channel,
// preserving the mode.
func (s ChannelSpec) WithChannel(channel int) ChannelSpec {
	return ChannelSpec{Mode: s.Mode, Channel: channel}
}

// Width returns how many channels the endpoint occupies.
func (s ChannelSpec) Width() int {
	if s.Mode == ModeMono {
		return 1
	}
	return 2
}

func (s ChannelSpec) String() string {
	if s.Mode == ModeMono {
		return fmt.Sprintf("mono ch %d", s.Channel)
	}
	return fmt.Sprintf("stereo ch %d-%d", s.Channel, s.Channel+1)
}
