package tui

import (
	"github.com/MuhamedUsman/rmshelf/internal/domain"
	"github.com/MuhamedUsman/rmshelf/internal/tree"
	tea "github.com/charmbracelet/bubbletea"
)

// completion is one of the results background tasks post on the completion
// channel, the set is closed.
type completion interface {
	isCompletion()
}

// listingReadyMsg carries the entries of folder, the folder is the staleness tag.
type listingReadyMsg struct {
	folder  domain.FolderID
	entries []domain.Entry
}

type downloadDoneMsg struct {
	path   string
	result tree.Result
}

type uploadDoneMsg struct {
	path string
}

// operationFailedMsg reports a failed background operation,
// folder is only meaningful for op == opList.
type operationFailedMsg struct {
	op     string
	folder domain.FolderID
	err    error
}

func (listingReadyMsg) isCompletion()    {}
func (downloadDoneMsg) isCompletion()    {}
func (uploadDoneMsg) isCompletion()      {}
func (operationFailedMsg) isCompletion() {}

const (
	opList      = "List"
	opDownload  = "Download"
	opPreflight = "Upload pre-check"
	opUpload    = "Upload"
)

// tickMsg wakes the loop to drain the completion channel.
type tickMsg struct{}

// refreshMsg asks for a listing of the current folder, sent once at startup.
type refreshMsg struct{}

// shutdownMsg is sent once the background tasks are done or the wait timed out.
type shutdownMsg struct {
	err error
}

func msgToCmd[t tea.Msg](msg t) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}
