package application

import (
	"routecheck/internal/adapters/memory"
	"routecheck/internal/domain"
	"routecheck/internal/ports"
)

// Raw endpoint encodings for test fixtures: stereo pairs are 0-based start
// channels, mono adds the 1024 flag.
func stereoRaw(channel int) int { return channel - 1 }
func monoRaw(channel int) int   { return 1024 + channel - 1 }

func track(id domain.TrackID, name string, channels, folderDepth int, mainSend bool, sends ...ports.HostSend) ports.HostTrack {
	return ports.HostTrack{
		ID:           id,
		Name:         name,
		ChannelCount: channels,
		FolderDepth:  folderDepth,
		MainSend:     mainSend,
		Sends:        sends,
	}
}

func send(dest domain.TrackID, srcRaw, dstRaw int) ports.HostSend {
	return ports.HostSend{DestID: dest, SrcRaw: srcRaw, DstRaw: dstRaw, Enabled: true}
}

func disabledSend(dest domain.TrackID, srcRaw, dstRaw int) ports.HostSend {
	return ports.HostSend{DestID: dest, SrcRaw: srcRaw, DstRaw: dstRaw}
}

func layout(channels int, order domain.ChannelOrder) domain.ChannelLayout {
	l, ok := domain.StandardLayout(channels, order)
	if !ok {
		panic("no standard layout in fixture")
	}
	return l
}

// misalignedProject builds a folder holding a 5-channel reference track and
// a quad track whose explicit sends still route positionally, so its LS/RS
// labels land two channels short of where the reference layout puts them.
func misalignedProject() (*memory.Host, *memory.Generator) {
	host := memory.NewHost(6,
		track(1, "Mix", 6, 1, true),
		track(2, "Surround", 6, 0, true),
		track(3, "Quad", 4, -1, false,
			send(1, stereoRaw(1), stereoRaw(1)),
			send(1, stereoRaw(3), stereoRaw(3)),
		),
	)
	gen := memory.NewGenerator(map[string]domain.ChannelLayout{
		"Surround": layout(5, domain.OrderSMPTE),
		"Quad":     layout(4, domain.OrderUnknown),
	})
	return host, gen
}

// conflictedProject builds two managed 5-channel tracks declared under
// disagreeing ordering conventions. FrontB routes its center channel with a
// mono send, so adopting SMPTE has something concrete to rewrite.
func conflictedProject() (*memory.Host, *memory.Generator) {
	host := memory.NewHost(6,
		track(1, "Mix", 6, 1, true),
		track(2, "FrontA", 6, 0, true),
		track(3, "FrontB", 6, -1, false,
			send(1, monoRaw(2), monoRaw(2)),
		),
	)
	gen := memory.NewGenerator(map[string]domain.ChannelLayout{
		"FrontA": layout(5, domain.OrderSMPTE),
		"FrontB": layout(5, domain.OrderFilm),
	})
	return host, gen
}
