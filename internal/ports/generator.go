package ports

import "routecheck/internal/domain"

// Generator is the boundary to the content-authoring engine that created the
// managed tracks in the first place. The scanner uses it to classify tracks
// and to learn what layout each managed container is supposed to have.
type Generator interface {
	// ManagedTrackNames returns the exact display names of tracks the
	// authoring engine owns. Classification is exact-match only.
	ManagedTrackNames() (map[string]struct{}, error)

	// RequiredChannelLayout returns the declared channel layout for a
	// managed container name. ok is false for names the engine does not
	// know a layout for.
	RequiredChannelLayout(name string) (layout domain.ChannelLayout, ok bool, err error)
}
