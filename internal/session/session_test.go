package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/MuhamedUsman/rmshelf/internal/domain"
	"github.com/MuhamedUsman/rmshelf/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func folders(ids ...string) []domain.Entry {
	es := make([]domain.Entry, len(ids))
	for i, id := range ids {
		es[i] = domain.Entry{ID: id, Name: "Folder " + id, Kind: domain.Folder}
	}
	return es
}

func docs(names ...string) []domain.Entry {
	es := make([]domain.Entry, len(names))
	for i, n := range names {
		es[i] = domain.Entry{ID: "doc-" + n, Name: n, Kind: domain.Document}
	}
	return es
}

func TestNew(t *testing.T) {
	s := New()
	assert.True(t, s.Current().IsRoot())
	assert.Empty(t, s.Entries())
	assert.Equal(t, NoSelection, s.Selection())
	assert.Equal(t, Normal, s.Mode())
	assert.Equal(t, "Ready.", s.Status())
}

func TestRefresh(t *testing.T) {
	s := New()
	eff := s.Refresh()
	assert.Equal(t, []Effect{Refresh{Folder: domain.Root}}, eff)
	assert.Equal(t, "Loading...", s.Status())
	assert.Equal(t, 1, s.Pending())

	assert.True(t, s.ApplyListing(domain.Root, docs("a", "b")))
	assert.Equal(t, "Loaded 2 items.", s.Status())
	assert.Equal(t, 0, s.Selection())
	assert.Zero(t, s.Pending())

	s.Refresh()
	assert.True(t, s.ApplyListing(domain.Root, nil))
	assert.Equal(t, NoSelection, s.Selection())
	assert.Equal(t, "Loaded 0 items.", s.Status())
}

func TestMoveSelection(t *testing.T) {
	s := New()
	for _, d := range []int{-3, -1, 0, 1, 7} {
		s.MoveSelection(d)
		assert.Equal(t, NoSelection, s.Selection(), "moving on an empty listing is a no-op")
	}

	s.ApplyListing(domain.Root, docs("a", "b", "c"))
	s.MoveSelection(1)
	s.MoveSelection(1)
	assert.Equal(t, 2, s.Selection())
	s.MoveSelection(1)
	assert.Equal(t, 0, s.Selection(), "past the last entry wraps to the first")
	s.MoveSelection(-1)
	assert.Equal(t, 2, s.Selection(), "before the first entry wraps to the last")
	s.MoveSelection(0)
	assert.Equal(t, 2, s.Selection())
	s.MoveSelection(-7)
	assert.Equal(t, 1, s.Selection())
}

func TestMoveSelection_FromNone(t *testing.T) {
	s := New()
	s.ApplyListing(domain.Root, docs("a", "b"))
	s.OpenSelected() // a document, nothing happens
	s.selection = NoSelection
	s.MoveSelection(-1)
	assert.Equal(t, 0, s.Selection())
}

func TestOpenSelected(t *testing.T) {
	s := New()
	s.ApplyListing(domain.Root, append(docs("x"), folders("f1")...))

	assert.Nil(t, s.OpenSelected(), "documents cannot be opened")
	assert.True(t, s.Current().IsRoot())

	s.MoveSelection(1)
	eff := s.OpenSelected()
	assert.Equal(t, []Effect{Refresh{Folder: "f1"}}, eff)
	assert.Equal(t, domain.FolderID("f1"), s.Current())
	assert.Equal(t, []domain.FolderID{domain.Root}, s.History())
	assert.Equal(t, NoSelection, s.Selection())
	assert.Empty(t, s.Entries())
	assert.Equal(t, "Loading...", s.Status())
}

func TestGoBack(t *testing.T) {
	s := New()
	assert.Nil(t, s.GoBack())
	assert.Equal(t, "Already at root.", s.Status())
	assert.True(t, s.Current().IsRoot())

	s.ApplyListing(domain.Root, folders("f1"))
	s.OpenSelected()
	s.ApplyListing("f1", folders("f2"))
	s.OpenSelected()
	assert.Equal(t, 2, s.Depth())

	assert.Equal(t, []Effect{Refresh{Folder: "f1"}}, s.GoBack())
	assert.Equal(t, domain.FolderID("f1"), s.Current())
	assert.Equal(t, []Effect{Refresh{Folder: domain.Root}}, s.GoBack())
	assert.True(t, s.Current().IsRoot())
	assert.Zero(t, s.Depth())
}

func TestNavigationReplay(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for run := range 50 {
		s := New()
		s.ApplyListing(domain.Root, folders(fmt.Sprint("r", run)))
		open := 0
		for step := range 40 {
			if r.IntN(2) == 0 {
				s.ApplyListing(s.Current(), folders(fmt.Sprint(run, "-", step)))
				s.OpenSelected()
				open++
			} else {
				s.GoBack()
				if open > 0 {
					open--
				}
			}
			require.Equal(t, open, s.Depth(), "history depth tracks unmatched enters")
			require.Equal(t, open == 0, s.Current().IsRoot(), "root iff no unmatched enters")
		}
	}
}

func TestApplyListing_DiscardsStale(t *testing.T) {
	s := New()
	s.ApplyListing(domain.Root, folders("A", "B"))
	s.OpenSelected() // request listing for A
	s.GoBack()
	s.MoveSelection(1)
	s.ApplyListing(domain.Root, folders("A", "B"))
	s.MoveSelection(1)
	s.OpenSelected() // now in B
	require.Equal(t, domain.FolderID("B"), s.Current())
	assert.True(t, s.ApplyListing("B", docs("b1")))

	assert.False(t, s.ApplyListing("A", docs("a1", "a2")), "late listing for A")
	assert.Equal(t, docs("b1"), s.Entries())
	assert.Equal(t, "Loaded 1 items.", s.Status())

	assert.False(t, s.ApplyListingFailure("A", errors.New("boom")))
	assert.Equal(t, "Loaded 1 items.", s.Status())
}

func TestApplyListingFailure_KeepsEntries(t *testing.T) {
	s := New()
	s.ApplyListing(domain.Root, docs("a"))
	s.Refresh()
	assert.True(t, s.ApplyListingFailure(domain.Root, fmt.Errorf("%w: status 500", domain.ErrTransport)))
	assert.Equal(t, docs("a"), s.Entries())
	assert.Equal(t, "Error: transport error: status 500", s.Status())
}

func TestTextEntry(t *testing.T) {
	s := New()
	s.Insert('x')
	assert.Empty(t, s.Input(), "typing in normal mode does nothing")

	require.True(t, s.BeginUpload())
	s.Insert([]rune("~/nötes")...)
	s.Backspace()
	assert.Equal(t, "~/nöte", s.Input())
	s.Cancel()
	assert.Equal(t, Normal, s.Mode())
	assert.Equal(t, "Upload cancelled.", s.Status())
	assert.Empty(t, s.Input())

	assert.False(t, s.BeginDownload(), "nothing selected")
	assert.Equal(t, "Nothing selected.", s.Status())
	s.ApplyListing(domain.Root, docs("a"))
	require.True(t, s.BeginDownload())
	assert.Equal(t, AwaitingDownloadPath, s.Mode())
	s.Insert('/')
	s.Cancel()
	assert.Equal(t, "Download cancelled.", s.Status())
}

func TestConfirmDownload(t *testing.T) {
	home := "/home/reader"
	s := New()
	s.ApplyListing(domain.Root, docs("My Report"))
	s.BeginDownload()

	s.Insert([]rune("   ")...)
	eff, err := s.ConfirmDownload(home)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, eff)
	assert.Equal(t, "Path cannot be empty.", s.Status())
	assert.Equal(t, AwaitingDownloadPath, s.Mode(), "stays in path entry")

	s.Insert([]rune("~/out/ ")...)
	eff, err = s.ConfirmDownload(home)
	require.NoError(t, err)
	assert.Equal(t, []Effect{Download{Entry: docs("My Report")[0], Dest: "/home/reader/out/"}}, eff)
	assert.Equal(t, Normal, s.Mode())
	assert.Equal(t, "Downloading My Report...", s.Status())
	assert.Equal(t, 1, s.Pending())

	s.DownloadSucceeded("/x/My_Report.pdf", tree.Result{Documents: 1, Bytes: 2048})
	assert.Equal(t, "Downloaded /x/My_Report.pdf (2.0 KiB).", s.Status())
	assert.Zero(t, s.Pending())
}

func TestConfirmDownload_SelectionVanished(t *testing.T) {
	s := New()
	s.ApplyListing(domain.Root, docs("a"))
	s.BeginDownload()
	s.ApplyListing(domain.Root, nil)
	s.Insert('/')
	eff, err := s.ConfirmDownload("/home")
	assert.NoError(t, err)
	assert.Nil(t, eff)
	assert.Equal(t, Normal, s.Mode())
	assert.Equal(t, "Nothing selected.", s.Status())
}

func TestConfirmDownload_ListingWhileTyping(t *testing.T) {
	s := New()
	entries := docs("Alpha", "Beta")
	s.ApplyListing(domain.Root, entries)
	s.MoveSelection(1)
	s.Refresh()
	require.True(t, s.BeginDownload())

	// the refresh lands while the destination is typed and resets the cursor
	require.True(t, s.ApplyListing(domain.Root, docs("Alpha", "Beta")))
	assert.Equal(t, 0, s.Selection())
	s.Insert([]rune("/tmp/")...)

	eff, err := s.ConfirmDownload("/home")
	require.NoError(t, err)
	assert.Equal(t, []Effect{Download{Entry: entries[1], Dest: "/tmp/"}}, eff)
	assert.Equal(t, "Downloading Beta...", s.Status())
}

func TestConfirmUpload(t *testing.T) {
	var asked []string
	isFile := func(p string) bool {
		asked = append(asked, p)
		return p == "/home/reader/doc.pdf"
	}
	s := New()
	s.ApplyListing(domain.Root, folders("f1"))
	s.OpenSelected()
	s.BeginUpload()

	s.Insert([]rune("~/missing.pdf")...)
	eff, err := s.ConfirmUpload("/home/reader", isFile)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, eff, "nothing is spawned for a missing file")
	assert.Equal(t, "File does not exist.", s.Status())
	assert.Equal(t, AwaitingUploadPath, s.Mode())

	s.input = nil
	s.Insert([]rune("~/doc.pdf")...)
	eff, err = s.ConfirmUpload("/home/reader", isFile)
	require.NoError(t, err)
	assert.Equal(t, []Effect{Upload{Path: "/home/reader/doc.pdf", Folder: "f1"}}, eff)
	assert.Equal(t, "Uploading /home/reader/doc.pdf...", s.Status())
	assert.Equal(t, []string{"/home/reader/missing.pdf", "/home/reader/doc.pdf"}, asked)

	eff = s.UploadSucceeded("/home/reader/doc.pdf")
	assert.Equal(t, []Effect{Refresh{Folder: "f1"}}, eff)
	assert.Equal(t, "Uploaded /home/reader/doc.pdf. Refreshing...", s.Status())
}

func TestOperationFailed(t *testing.T) {
	s := New()
	s.ApplyListing(domain.Root, docs("a"))
	s.OperationFailed("Download", fmt.Errorf("%w: disk full", domain.ErrIO))
	assert.Equal(t, "Error: Download failed: io error: disk full", s.Status())
	assert.Equal(t, docs("a"), s.Entries(), "failures never touch the listing")
}
