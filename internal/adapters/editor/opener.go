package editor

import (
	"fmt"
	"os"
	"os/exec"

	"routecheck/internal/ports"
)

// Opener implements ports.EditorOpener.
type Opener struct{}

// Ensure Opener implements EditorOpener
var _ ports.EditorOpener = (*Opener)(nil)

// NewOpener creates a new editor opener.
func NewOpener() *Opener {
	return &Opener{}
}

// OpenFile opens a file in the user's preferred editor.
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file in the editor. Useful for
// integrating with bubbletea's ExecProcess so the TUI suspends cleanly.
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	editor := findEditor()
	if editor == "" {
		return nil, fmt.Errorf("no editor found: set $EDITOR")
	}
	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// findEditor checks ROUTECHECK_EDITOR, then EDITOR, then common fallbacks.
func findEditor() string {
	if ed := os.Getenv("ROUTECHECK_EDITOR"); ed != "" {
		return ed
	}
	if ed := os.Getenv("EDITOR"); ed != "" {
		return ed
	}
	for _, candidate := range []string{"nvim", "vim", "nano", "vi"} {
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
