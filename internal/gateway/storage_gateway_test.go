package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"collab-docs-be/internal/entity"
	"collab-docs-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStateRepo struct {
	stored  map[string]*entity.Document
	findErr error
	upserts int
}

func (f *fakeStateRepo) FindById(ctx context.Context, id string) (*entity.Document, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.stored[id], nil
}

func (f *fakeStateRepo) Upsert(ctx context.Context, doc *entity.Document) error {
	f.upserts++
	if f.stored == nil {
		f.stored = make(map[string]*entity.Document)
	}
	copied := *doc
	f.stored[doc.Id] = &copied
	return nil
}

func newTestGateway(repo *fakeStateRepo, baseURL string) *StorageGateway {
	return NewStorageGateway(repo, baseURL, 2*time.Second, 30*time.Second, logger.NewNoopLogger())
}

func TestLoadNeverFetchedDocumentStaysUnset(t *testing.T) {
	gw := newTestGateway(&fakeStateRepo{}, "http://storage.test")

	doc := &entity.Document{Id: "docId", WorkGroupId: "wgrId"}
	require.NoError(t, gw.Load(context.Background(), doc))

	assert.Equal(t, entity.DocumentStateUnset, doc.State)
}

func TestLoadRestoresPersistedState(t *testing.T) {
	repo := &fakeStateRepo{stored: map[string]*entity.Document{
		"docId": {
			Id:               "docId",
			State:            entity.DocumentStateDownloaded,
			Extension:        "docx",
			StorageServerUrl: "http://stored.test",
		},
	}}
	gw := newTestGateway(repo, "http://storage.test")

	doc := &entity.Document{Id: "docId", WorkGroupId: "wgrId"}
	require.NoError(t, gw.Load(context.Background(), doc))

	assert.Equal(t, entity.DocumentStateDownloaded, doc.State)
	assert.Equal(t, "docx", doc.Extension)
	assert.Equal(t, "http://stored.test", doc.StorageServerUrl)
}

func TestLoadPropagatesRepositoryFault(t *testing.T) {
	gw := newTestGateway(&fakeStateRepo{findErr: errors.New("db down")}, "http://storage.test")

	doc := &entity.Document{Id: "docId"}
	assert.Error(t, gw.Load(context.Background(), doc))
}

func TestCanBeEditedQueriesAndCaches(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/api/workgroups/wgrId/documents/docId/permissions", r.URL.Path)
		assert.Equal(t, "user@test", r.URL.Query().Get("user"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"canEdit": true}`))
	}))
	defer srv.Close()

	gw := newTestGateway(&fakeStateRepo{}, srv.URL)
	doc := &entity.Document{Id: "docId", WorkGroupId: "wgrId", Requester: "user@test"}

	canEdit, err := gw.CanBeEdited(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, canEdit)

	_, err = gw.CanBeEdited(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 1, hits, "second check within the TTL must hit the cache")
}

func TestCanBeEditedDenied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"canEdit": false}`))
	}))
	defer srv.Close()

	gw := newTestGateway(&fakeStateRepo{}, srv.URL)
	doc := &entity.Document{Id: "docId", WorkGroupId: "wgrId", Requester: "viewer@test"}

	canEdit, err := gw.CanBeEdited(context.Background(), doc)
	require.NoError(t, err)
	assert.False(t, canEdit)
}

func TestPopulateMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/workgroups/wgrId/documents/docId/metadata", r.URL.Path)
		w.Write([]byte(`{"extension": ".docx", "name": "report.docx", "size": 1024}`))
	}))
	defer srv.Close()

	gw := newTestGateway(&fakeStateRepo{}, srv.URL)
	doc := &entity.Document{Id: "docId", WorkGroupId: "wgrId"}

	require.NoError(t, gw.PopulateMetadata(context.Background(), doc))
	assert.Equal(t, "docx", doc.Extension)
	assert.JSONEq(t, `{"extension": ".docx", "name": "report.docx", "size": 1024}`, string(doc.Metadata))
}

func TestPopulateMetadataNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	gw := newTestGateway(&fakeStateRepo{}, srv.URL)
	doc := &entity.Document{Id: "docId", WorkGroupId: "wgrId"}

	err := gw.PopulateMetadata(context.Background(), doc)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestSaveUpserts(t *testing.T) {
	repo := &fakeStateRepo{}
	gw := newTestGateway(repo, "http://storage.test")

	doc := &entity.Document{Id: "docId", State: entity.DocumentStateDownloading}
	require.NoError(t, gw.Save(context.Background(), doc))

	assert.Equal(t, 1, repo.upserts)
	assert.Equal(t, entity.DocumentStateDownloading, repo.stored["docId"].State)
}

func TestDocumentEndpointPrefersPerDocumentURL(t *testing.T) {
	gw := newTestGateway(&fakeStateRepo{}, "http://default.test")

	doc := &entity.Document{Id: "docId", WorkGroupId: "wgrId", StorageServerUrl: "http://override.test/"}
	assert.Equal(t,
		"http://override.test/api/workgroups/wgrId/documents/docId/metadata",
		gw.documentEndpoint(doc, "/metadata"))

	doc.StorageServerUrl = ""
	assert.Equal(t,
		"http://default.test/api/workgroups/wgrId/documents/docId/metadata",
		gw.documentEndpoint(doc, "/metadata"))
}
