package entity

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type DocumentState string

const (
	// DocumentStateUnset means no fetch was ever attempted for this id.
	DocumentStateUnset       DocumentState = ""
	DocumentStateDownloading DocumentState = "downloading"
	DocumentStateDownloaded  DocumentState = "downloaded"
	DocumentStateFailed      DocumentState = "failed"
)

// Formats the document server can open for collaborative editing.
var editableExtensions = map[string]bool{
	"doc": true, "docx": true, "odt": true, "rtf": true, "txt": true,
	"xls": true, "xlsx": true, "ods": true, "csv": true,
	"ppt": true, "pptx": true, "odp": true,
}

type Document struct {
	Id               string `gorm:"primaryKey"`
	WorkGroupId      string `gorm:"index"`
	StorageServerUrl string
	State            DocumentState
	Extension        string
	Metadata         datatypes.JSON
	UpdatedAt        time.Time

	// Requester is the identity that triggered the current load.
	// Per-request only, never persisted across reconnects.
	Requester string `gorm:"-"`
}

func (Document) TableName() string {
	return "document_sessions"
}

func (d *Document) IsDownloaded() bool {
	return d.State == DocumentStateDownloaded
}

func (d *Document) IsEditableExtension() bool {
	return editableExtensions[strings.ToLower(d.Extension)]
}

// SetState enforces the document lifecycle:
// unset -> downloading -> downloaded|failed, and downloaded -> downloading
// when a conflicting save invalidates the fetched copy.
func (d *Document) SetState(next DocumentState) error {
	var ok bool
	switch d.State {
	case DocumentStateUnset:
		ok = next == DocumentStateDownloading
	case DocumentStateDownloading:
		ok = next == DocumentStateDownloaded || next == DocumentStateFailed
	case DocumentStateDownloaded:
		ok = next == DocumentStateDownloading
	case DocumentStateFailed:
		ok = false
	}
	if !ok {
		return fmt.Errorf("invalid document state transition %q -> %q", d.State, next)
	}
	d.State = next
	return nil
}
