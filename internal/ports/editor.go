package ports

import "os/exec"

// EditorOpener defines the interface for opening the project file in an
// external editor, for inspecting what a fix actually rewrote.
type EditorOpener interface {
	// OpenFile opens the specified file in the user's preferred editor.
	OpenFile(path string) error

	// Command returns an exec.Cmd for opening a file in the editor.
	// This is useful for integrating with bubbletea's ExecProcess.
	Command(path string) (*exec.Cmd, error)
}
