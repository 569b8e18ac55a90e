// Package session holds the navigation state of the browser and the transitions
// between its modes. Transitions never do I/O, they return the Effects the
// caller has to run in the background and feed back through the completion methods.
package session

import (
	"fmt"
	"strings"

	"github.com/MuhamedUsman/rmshelf/internal/domain"
	"github.com/MuhamedUsman/rmshelf/internal/file"
	"github.com/MuhamedUsman/rmshelf/internal/tree"
	"github.com/dustin/go-humanize"
)

type Mode int

const (
	Normal Mode = iota
	AwaitingUploadPath
	AwaitingDownloadPath
)

func (m Mode) String() string {
	switch m {
	case AwaitingUploadPath:
		return "upload"
	case AwaitingDownloadPath:
		return "download"
	default:
		return "normal"
	}
}

// NoSelection is the selection index of an empty or freshly changed listing.
const NoSelection = -1

// Effect is background work requested by a transition.
type Effect interface {
	isEffect()
}

// Refresh lists Folder, the result is tagged with it.
type Refresh struct {
	Folder domain.FolderID
}

// Download materializes Entry at Dest.
type Download struct {
	Entry domain.Entry
	Dest  string
}

// Upload sends the file at Path, Folder is the folder shown when it was confirmed.
type Upload struct {
	Path   string
	Folder domain.FolderID
}

func (Refresh) isEffect()  {}
func (Download) isEffect() {}
func (Upload) isEffect()   {}

// State is owned by a single goroutine, none of its methods are safe for concurrent use.
type State struct {
	current   domain.FolderID
	history   []domain.FolderID
	entries   []domain.Entry
	selection int
	mode      Mode
	input     []rune
	target    domain.Entry
	status    string
	pending   int
}

func New() *State {
	return &State{
		current:   domain.Root,
		selection: NoSelection,
		status:    "Ready.",
	}
}

func (s *State) Current() domain.FolderID { return s.current }
func (s *State) Depth() int               { return len(s.history) }
func (s *State) Entries() []domain.Entry  { return s.entries }
func (s *State) Selection() int           { return s.selection }
func (s *State) Mode() Mode               { return s.mode }
func (s *State) Input() string            { return string(s.input) }
func (s *State) Status() string           { return s.status }

// Pending is the number of effects handed out whose completion has not been applied yet.
func (s *State) Pending() int { return s.pending }

// History returns a copy of the folders above the current one, oldest first.
func (s *State) History() []domain.FolderID {
	return append([]domain.FolderID(nil), s.history...)
}

// Selected returns the entry under the cursor.
func (s *State) Selected() (domain.Entry, bool) {
	if s.selection < 0 || s.selection >= len(s.entries) {
		return domain.Entry{}, false
	}
	return s.entries[s.selection], true
}

// MoveSelection moves the cursor by delta, wrapping at both ends.
func (s *State) MoveSelection(delta int) {
	n := len(s.entries)
	if n == 0 {
		return
	}
	if s.selection == NoSelection {
		s.selection = 0
		return
	}
	s.selection = ((s.selection+delta)%n + n) % n
}

// OpenSelected enters the selected folder, it does nothing for documents.
func (s *State) OpenSelected() []Effect {
	e, ok := s.Selected()
	if !ok || !e.IsFolder() {
		return nil
	}
	s.history = append(s.history, s.current)
	s.current = domain.FolderID(e.ID)
	s.clearListing()
	return s.Refresh()
}

// GoBack returns to the previous folder.
func (s *State) GoBack() []Effect {
	if len(s.history) == 0 {
		s.status = "Already at root."
		return nil
	}
	last := len(s.history) - 1
	s.current = s.history[last]
	s.history = s.history[:last]
	s.clearListing()
	return s.Refresh()
}

// Refresh asks for a new listing of the current folder.
func (s *State) Refresh() []Effect {
	s.status = "Loading..."
	return s.spawn(Refresh{Folder: s.current})
}

// ApplyListing replaces the entries when tag is still the current folder and
// reports whether it did. Listings for other folders are dropped.
func (s *State) ApplyListing(tag domain.FolderID, entries []domain.Entry) bool {
	s.complete()
	if tag != s.current {
		return false
	}
	s.entries = entries
	s.selection = NoSelection
	if len(entries) > 0 {
		s.selection = 0
	}
	s.status = fmt.Sprintf("Loaded %d items.", len(entries))
	return true
}

// ApplyListingFailure reports a failed listing of the current folder, the
// entries already shown are kept.
func (s *State) ApplyListingFailure(tag domain.FolderID, err error) bool {
	s.complete()
	if tag != s.current {
		return false
	}
	s.status = "Error: " + err.Error()
	return true
}

// BeginDownload asks for a destination for the selected entry.
func (s *State) BeginDownload() bool {
	if s.mode != Normal {
		return false
	}
	e, ok := s.Selected()
	if !ok {
		s.status = "Nothing selected."
		return false
	}
	s.target = e
	s.mode = AwaitingDownloadPath
	s.input = s.input[:0]
	s.status = "Enter destination path:"
	return true
}

// BeginUpload asks for the local file to upload.
func (s *State) BeginUpload() bool {
	if s.mode != Normal {
		return false
	}
	s.mode = AwaitingUploadPath
	s.input = s.input[:0]
	s.status = "Enter file path to upload:"
	return true
}

func (s *State) awaiting() bool {
	return s.mode == AwaitingUploadPath || s.mode == AwaitingDownloadPath
}

// Insert appends runes to the input buffer.
func (s *State) Insert(r ...rune) {
	if s.awaiting() {
		s.input = append(s.input, r...)
	}
}

// Backspace removes the last rune of the input buffer.
func (s *State) Backspace() {
	if s.awaiting() && len(s.input) > 0 {
		s.input = s.input[:len(s.input)-1]
	}
}

// Cancel leaves path entry and drops the buffer.
func (s *State) Cancel() {
	switch s.mode {
	case AwaitingUploadPath:
		s.status = "Upload cancelled."
	case AwaitingDownloadPath:
		s.status = "Download cancelled."
	default:
		return
	}
	s.mode = Normal
	s.input = s.input[:0]
	s.target = domain.Entry{}
}

// path returns the trimmed, home expanded input.
func (s *State) path(home string) (string, error) {
	p := strings.TrimSpace(string(s.input))
	if p == "" {
		s.status = "Path cannot be empty."
		return "", fmt.Errorf("%w: path is empty", domain.ErrInvalidInput)
	}
	return file.ExpandHome(p, home), nil
}

// ConfirmDownload accepts the buffer as the download destination for the entry
// picked by BeginDownload. Listings applied in between move the cursor but not
// the target, a target missing from the current entries is not downloaded.
func (s *State) ConfirmDownload(home string) ([]Effect, error) {
	if s.mode != AwaitingDownloadPath {
		return nil, nil
	}
	dest, err := s.path(home)
	if err != nil {
		return nil, err
	}
	s.mode = Normal
	s.input = s.input[:0]
	e := s.target
	s.target = domain.Entry{}
	if !s.listed(e.ID) {
		s.status = "Nothing selected."
		return nil, nil
	}
	s.status = fmt.Sprintf("Downloading %s...", e.Name)
	return s.spawn(Download{Entry: e, Dest: dest}), nil
}

// ConfirmUpload accepts the buffer as the file to upload, isFile is asked
// whether the expanded path is an existing regular file.
func (s *State) ConfirmUpload(home string, isFile func(string) bool) ([]Effect, error) {
	if s.mode != AwaitingUploadPath {
		return nil, nil
	}
	p, err := s.path(home)
	if err != nil {
		return nil, err
	}
	if !isFile(p) {
		s.status = "File does not exist."
		return nil, fmt.Errorf("%w: %q is not a file", domain.ErrInvalidInput, p)
	}
	s.mode = Normal
	s.input = s.input[:0]
	s.status = fmt.Sprintf("Uploading %s...", p)
	return s.spawn(Upload{Path: p, Folder: s.current}), nil
}

// UploadSucceeded reports the upload and lists the current folder again.
func (s *State) UploadSucceeded(path string) []Effect {
	s.complete()
	eff := s.Refresh()
	s.status = fmt.Sprintf("Uploaded %s. Refreshing...", path)
	return eff
}

// DownloadSucceeded reports where the download landed.
func (s *State) DownloadSucceeded(path string, res tree.Result) {
	s.complete()
	if res.Folders == 0 {
		s.status = fmt.Sprintf("Downloaded %s (%s).", path, humanize.IBytes(uint64(res.Bytes)))
		return
	}
	s.status = fmt.Sprintf("Downloaded %s (%d documents, %d folders, %s).",
		path, res.Documents, res.Folders, humanize.IBytes(uint64(res.Bytes)))
}

// OperationFailed reports a failed download or upload.
func (s *State) OperationFailed(op string, err error) {
	s.complete()
	s.status = fmt.Sprintf("Error: %s failed: %v", op, err)
}

func (s *State) listed(id string) bool {
	for _, e := range s.entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

func (s *State) clearListing() {
	s.entries = nil
	s.selection = NoSelection
}

func (s *State) spawn(eff ...Effect) []Effect {
	s.pending += len(eff)
	return eff
}

func (s *State) complete() {
	if s.pending > 0 {
		s.pending--
	}
}
