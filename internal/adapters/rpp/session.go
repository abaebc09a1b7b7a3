package rpp

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"routecheck/internal/domain"
	"routecheck/internal/ports"
)

// Attribute vocabulary of the track blocks the session understands. Sends
// are stored REAPER-style as receives on the destination track:
// AUXRECV <src-track-index> <mode> <vol> <pan> <mute> <mono> <srcraw> <dstraw>
const (
	attrName      = "NAME"
	attrChannels  = "NCHAN"
	attrFolder    = "ISBUS"
	attrMainSend  = "MAINSEND"
	attrOrder     = "CHANORDER"
	attrReceive   = "AUXRECV"
	attrMasterNCH = "MASTER_NCH"
	blockTrack    = "TRACK"
)

const (
	recvFieldSrc    = 1
	recvFieldMute   = 5
	recvFieldSrcRaw = 7
	recvFieldDstRaw = 8
	recvFieldCount  = 9
)

// sendLoc addresses one AUXRECV attribute line from the source track's
// point of view.
type sendLoc struct {
	dest    *Block
	lineIdx int
}

// Session implements ports.Host over one parsed project file. Track
// identity is the 0-based position in the file's track list, which is what
// receive lines reference too.
//
// Begin clones the parse tree; Rollback restores the clone; Commit rewrites
// the project file atomically, leaving a .bak of the previous contents. One
// committed transaction is one on-disk revision, the host-side equivalent
// of a single undo step.
type Session struct {
	path string
	root *Block

	tracks   []*Block            // track blocks in file order
	sendRefs map[domain.TrackID][]sendLoc

	snapshot *Block
	inTx     bool
}

// Ensure Session implements ports.Host
var _ ports.Host = (*Session)(nil)

// Load opens a project file.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}
	root, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s := &Session{path: path, root: root}
	s.index()
	return s, nil
}

// index rebuilds the track list and send references from the parse tree.
func (s *Session) index() {
	s.tracks = s.root.ChildBlocks(blockTrack)
	s.sendRefs = make(map[domain.TrackID][]sendLoc)
	for _, track := range s.tracks {
		for i, line := range track.Lines {
			if line.Block != nil || len(line.Tokens) < recvFieldCount || line.Tokens[0] != attrReceive {
				continue
			}
			src, err := strconv.Atoi(line.Tokens[recvFieldSrc])
			if err != nil || src < 0 || src >= len(s.tracks) {
				continue
			}
			id := domain.TrackID(src)
			s.sendRefs[id] = append(s.sendRefs[id], sendLoc{dest: track, lineIdx: i})
		}
	}
}

// Tracks snapshots the project's track list.
func (s *Session) Tracks() ([]ports.HostTrack, error) {
	out := make([]ports.HostTrack, 0, len(s.tracks))
	for i, block := range s.tracks {
		id := domain.TrackID(i)
		ht := ports.HostTrack{
			ID:           id,
			Name:         attrString(block, attrName),
			ChannelCount: attrInt(block, attrChannels, 0, 2),
			Order:        readOrder(block),
		}
		if tokens, ok := block.Attr(attrFolder); ok && len(tokens) >= 3 {
			ht.FolderDepth, _ = strconv.Atoi(tokens[2])
		}
		ht.MainSend = attrInt(block, attrMainSend, 0, 1) != 0
		for _, loc := range s.sendRefs[id] {
			tokens := loc.dest.Lines[loc.lineIdx].Tokens
			destIdx := s.trackIndex(loc.dest)
			srcRaw, _ := strconv.Atoi(tokens[recvFieldSrcRaw])
			dstRaw, _ := strconv.Atoi(tokens[recvFieldDstRaw])
			mute, _ := strconv.Atoi(tokens[recvFieldMute])
			ht.Sends = append(ht.Sends, ports.HostSend{
				DestID:  domain.TrackID(destIdx),
				SrcRaw:  srcRaw,
				DstRaw:  dstRaw,
				Enabled: mute == 0,
			})
		}
		out = append(out, ht)
	}
	return out, nil
}

// Exists reports whether a track identity resolves in this session.
func (s *Session) Exists(id domain.TrackID) bool {
	return int(id) >= 0 && int(id) < len(s.tracks)
}

// MasterChannelCount returns the project's master bus width.
func (s *Session) MasterChannelCount() int {
	return attrInt(s.root, attrMasterNCH, 0, 2)
}

// SetChannelCount changes a track's channel width.
func (s *Session) SetChannelCount(id domain.TrackID, channels int) error {
	block, err := s.track(id)
	if err != nil {
		return err
	}
	block.SetAttr(attrChannels, strconv.Itoa(channels))
	return nil
}

// SetMasterChannelCount changes the master bus width.
func (s *Session) SetMasterChannelCount(channels int) error {
	s.root.SetAttr(attrMasterNCH, strconv.Itoa(channels))
	return nil
}

// SetSendDestChannel re-points one send's destination endpoint.
func (s *Session) SetSendDestChannel(id domain.TrackID, sendIndex int, raw int) error {
	refs := s.sendRefs[id]
	if sendIndex < 0 || sendIndex >= len(refs) {
		return fmt.Errorf("track %d has no send %d", id, sendIndex)
	}
	loc := refs[sendIndex]
	loc.dest.Lines[loc.lineIdx].Tokens[recvFieldDstRaw] = strconv.Itoa(raw)
	return nil
}

// SetChannelOrder records an ordering convention on a track.
func (s *Session) SetChannelOrder(id domain.TrackID, order domain.ChannelOrder) error {
	block, err := s.track(id)
	if err != nil {
		return err
	}
	switch order {
	case domain.OrderSMPTE:
		block.SetAttr(attrOrder, "smpte")
	case domain.OrderFilm:
		block.SetAttr(attrOrder, "film")
	default:
		return fmt.Errorf("cannot record unknown channel order")
	}
	return nil
}

// Begin opens a transaction over the parse tree.
func (s *Session) Begin(description string) error {
	if s.inTx {
		return fmt.Errorf("transaction already open")
	}
	_ = description // the file format has nowhere to keep it
	s.snapshot = s.root.Clone()
	s.inTx = true
	return nil
}

// Commit writes the mutated project back to disk atomically, keeping the
// previous contents as <path>.bak.
func (s *Session) Commit() error {
	if !s.inTx {
		return fmt.Errorf("no open transaction")
	}
	s.snapshot = nil
	s.inTx = false
	return s.save()
}

// Rollback restores the parse tree to its Begin state.
func (s *Session) Rollback() error {
	if !s.inTx {
		return fmt.Errorf("no open transaction")
	}
	s.root = s.snapshot
	s.snapshot = nil
	s.inTx = false
	s.index()
	return nil
}

func (s *Session) save() error {
	var buf bytes.Buffer
	if err := Write(&buf, s.root); err != nil {
		return err
	}

	if prev, err := os.ReadFile(s.path); err == nil {
		if err := os.WriteFile(s.path+".bak", prev, 0644); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace project: %w", err)
	}
	return nil
}

func (s *Session) track(id domain.TrackID) (*Block, error) {
	if !s.Exists(id) {
		return nil, fmt.Errorf("no track %d in project", id)
	}
	return s.tracks[id], nil
}

func (s *Session) trackIndex(block *Block) int {
	for i, t := range s.tracks {
		if t == block {
			return i
		}
	}
	return -1
}

func attrString(b *Block, key string) string {
	if tokens, ok := b.Attr(key); ok && len(tokens) > 1 {
		return tokens[1]
	}
	return ""
}

func attrInt(b *Block, key string, field, fallback int) int {
	tokens, ok := b.Attr(key)
	if !ok || len(tokens) <= field+1 {
		return fallback
	}
	n, err := strconv.Atoi(tokens[field+1])
	if err != nil {
		return fallback
	}
	return n
}

func readOrder(b *Block) domain.ChannelOrder {
	switch attrString(b, attrOrder) {
	case "smpte":
		return domain.OrderSMPTE
	case "film":
		return domain.OrderFilm
	default:
		return domain.OrderUnknown
	}
}
