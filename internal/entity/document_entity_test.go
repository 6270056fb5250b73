package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentStateTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    DocumentState
		to      DocumentState
		wantErr bool
	}{
		{name: "first download", from: DocumentStateUnset, to: DocumentStateDownloading, wantErr: false},
		{name: "download completes", from: DocumentStateDownloading, to: DocumentStateDownloaded, wantErr: false},
		{name: "download fails", from: DocumentStateDownloading, to: DocumentStateFailed, wantErr: false},
		{name: "conflicting save forces re-download", from: DocumentStateDownloaded, to: DocumentStateDownloading, wantErr: false},
		{name: "unset cannot complete directly", from: DocumentStateUnset, to: DocumentStateDownloaded, wantErr: true},
		{name: "unset cannot fail directly", from: DocumentStateUnset, to: DocumentStateFailed, wantErr: true},
		{name: "downloaded cannot fail", from: DocumentStateDownloaded, to: DocumentStateFailed, wantErr: true},
		{name: "failed is terminal", from: DocumentStateFailed, to: DocumentStateDownloading, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{Id: "doc-1", State: tt.from}
			err := doc.SetState(tt.to)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.from, doc.State, "state must not change on invalid transition")
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.to, doc.State)
			}
		})
	}
}

func TestDocumentIsDownloaded(t *testing.T) {
	doc := &Document{State: DocumentStateDownloading}
	assert.False(t, doc.IsDownloaded())

	doc.State = DocumentStateDownloaded
	assert.True(t, doc.IsDownloaded())
}

func TestDocumentIsEditableExtension(t *testing.T) {
	tests := []struct {
		extension string
		want      bool
	}{
		{"docx", true},
		{"DOCX", true},
		{"odt", true},
		{"xlsx", true},
		{"pptx", true},
		{"exe", false},
		{"pdf", false},
		{"", false},
	}

	for _, tt := range tests {
		doc := &Document{Extension: tt.extension}
		assert.Equal(t, tt.want, doc.IsEditableExtension(), "extension %q", tt.extension)
	}
}
