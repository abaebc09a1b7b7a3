package domain

import (
	"fmt"
	"strings"
)

// ChannelOrder names one of the two accepted label-to-position conventions
// for the ambiguous (5- and 7-channel) formats. They disagree on where the
// center channel sits: SMPTE puts it third (L R C ...), film order puts it
// second (L C R ...).
type ChannelOrder int

const (
	OrderUnknown ChannelOrder = iota
	OrderSMPTE
	OrderFilm
)

func (o ChannelOrder) String() string {
	switch o {
	case OrderSMPTE:
		return "SMPTE"
	case OrderFilm:
		return "Film"
	default:
		return "Unknown"
	}
}

// ParseChannelOrder reads a convention name as written in manifests.
func ParseChannelOrder(s string) (ChannelOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "smpte":
		return OrderSMPTE, nil
	case "film", "dolby":
		return OrderFilm, nil
	default:
		return OrderUnknown, fmt.Errorf("unknown channel order: %q", s)
	}
}

// Channel labels used across all standard layouts.
const (
	LabelL  = "L"
	LabelR  = "R"
	LabelC  = "C"
	LabelLS = "LS"
	LabelRS = "RS"
	LabelLB = "LB"
	LabelRB = "RB"
)

// ChannelLayout describes a declared channel format: its width, the label
// carried on each channel (Labels[i] is channel i+1), and which ordering
// convention produced it.
type ChannelLayout struct {
	ChannelCount int
	Labels       []string
	Order        ChannelOrder
}

// ChannelFor returns the 1-based channel carrying label, if the layout
// defines it.
func (l ChannelLayout) ChannelFor(label string) (int, bool) {
	for i, lb := range l.Labels {
		if lb == label {
			return i + 1, true
		}
	}
	return 0, false
}

// LabelFor returns the label on a 1-based channel, or "" when the layout
// does not cover it.
func (l ChannelLayout) LabelFor(channel int) string {
	if channel < 1 || channel > len(l.Labels) {
		return ""
	}
	return l.Labels[channel-1]
}

// OrderAmbiguous reports whether a channel count has more than one valid
// label ordering. In practice only the 5- and 7-channel formats do.
func OrderAmbiguous(channels int) bool {
	return channels == 5 || channels == 7
}

// StandardLayout returns the label table for a channel count under the given
// convention. For unambiguous widths the order argument is ignored. ok is
// false for widths with no standard table.
func StandardLayout(channels int, order ChannelOrder) (ChannelLayout, bool) {
	var labels []string
	switch channels {
	case 1:
		labels = []string{LabelC}
	case 2:
		labels = []string{LabelL, LabelR}
	case 4:
		labels = []string{LabelL, LabelR, LabelLS, LabelRS}
	case 5:
		if order == OrderFilm {
			labels = []string{LabelL, LabelC, LabelR, LabelLS, LabelRS}
		} else {
			labels = []string{LabelL, LabelR, LabelC, LabelLS, LabelRS}
			order = OrderSMPTE
		}
	case 7:
		if order == OrderFilm {
			labels = []string{LabelL, LabelC, LabelR, LabelLS, LabelRS, LabelLB, LabelRB}
		} else {
			labels = []string{LabelL, LabelR, LabelC, LabelLS, LabelRS, LabelLB, LabelRB}
			order = OrderSMPTE
		}
	default:
		return ChannelLayout{}, false
	}
	if !OrderAmbiguous(channels) {
		order = OrderUnknown
	}
	return ChannelLayout{ChannelCount: channels, Labels: labels, Order: order}, true
}

// RoundUpEven rounds a required capacity up to the nearest even number.
// Host channel counts are always even and never below 2.
func RoundUpEven(n int) int {
	if n < 2 {
		return 2
	}
	if n%2 != 0 {
		return n + 1
	}
	return n
}
