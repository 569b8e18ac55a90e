package domain

import (
	"encoding/json"
	"errors"
)

// collectionType is how the device API marks folders, anything else is a document.
const collectionType = "CollectionType"

var (
	// ErrTransport covers connection failures, non-2xx statuses and malformed bodies.
	ErrTransport = errors.New("transport error")
	// ErrNotFound is returned when a user supplied destination or its parent does not exist.
	ErrNotFound = errors.New("not found")
	// ErrIO covers local filesystem failures.
	ErrIO = errors.New("io error")
	// ErrInvalidInput is returned for empty paths and missing upload sources.
	ErrInvalidInput = errors.New("invalid input")
)

// FolderID identifies a folder on the device, Root is the zero value.
type FolderID string

const Root FolderID = ""

func (id FolderID) IsRoot() bool { return id == Root }

type Kind int

const (
	Document Kind = iota
	Folder
)

func (k Kind) String() string {
	if k == Folder {
		return "folder"
	}
	return "document"
}

// Entry is a single listed node, immutable once fetched.
type Entry struct {
	ID   string
	Name string
	Kind Kind
}

func (e Entry) IsFolder() bool { return e.Kind == Folder }

// wireEntry mirrors the JSON the device sends, including its spelling of VissibleName.
type wireEntry struct {
	ID           string `json:"ID"`
	VissibleName string `json:"VissibleName"`
	Type         string `json:"Type"`
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	var w wireEntry
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	e.ID, e.Name = w.ID, w.VissibleName
	e.Kind = Document
	if w.Type == collectionType {
		e.Kind = Folder
	}
	return nil
}

func (e Entry) MarshalJSON() ([]byte, error) {
	t := "DocumentType"
	if e.IsFolder() {
		t = collectionType
	}
	return json.Marshal(wireEntry{ID: e.ID, VissibleName: e.Name, Type: t})
}
