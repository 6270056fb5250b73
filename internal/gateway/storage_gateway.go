package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"collab-docs-be/internal/entity"
	"collab-docs-be/internal/pkg/logger"
	"collab-docs-be/internal/repository/contract"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/datatypes"
)

// StorageGateway talks to the document storage server's REST API for
// permissions and metadata, and to the state repository for the fetch
// lifecycle. Permission lookups are cached briefly since editors re-check
// on every subscribe.
type StorageGateway struct {
	httpClient  *http.Client
	repo        contract.DocumentStateRepository
	permissions *gocache.Cache
	baseURL     string
	logger      logger.ILogger
}

type permissionResponse struct {
	CanEdit bool `json:"canEdit"`
}

type metadataResponse struct {
	Extension string `json:"extension"`
}

func NewStorageGateway(
	repo contract.DocumentStateRepository,
	baseURL string,
	requestTimeout time.Duration,
	permissionTTL time.Duration,
	log logger.ILogger,
) *StorageGateway {
	return &StorageGateway{
		httpClient:  &http.Client{Timeout: requestTimeout},
		repo:        repo,
		permissions: gocache.New(permissionTTL, 2*permissionTTL),
		baseURL:     baseURL,
		logger:      log,
	}
}

func (g *StorageGateway) Load(ctx context.Context, doc *entity.Document) error {
	stored, err := g.repo.FindById(ctx, doc.Id)
	if err != nil {
		return fmt.Errorf("failed to load document state %s: %w", doc.Id, err)
	}
	if stored == nil {
		// Never fetched before; the document stays unset.
		return nil
	}

	doc.State = stored.State
	doc.Extension = stored.Extension
	doc.Metadata = stored.Metadata
	if doc.StorageServerUrl == "" {
		doc.StorageServerUrl = stored.StorageServerUrl
	}
	return nil
}

func (g *StorageGateway) CanBeEdited(ctx context.Context, doc *entity.Document) (bool, error) {
	cacheKey := doc.WorkGroupId + "/" + doc.Id + "/" + doc.Requester
	if cached, found := g.permissions.Get(cacheKey); found {
		return cached.(bool), nil
	}

	endpoint := g.documentEndpoint(doc, "/permissions") + "?user=" + url.QueryEscape(doc.Requester)
	var perm permissionResponse
	if err := g.getJSON(ctx, endpoint, &perm); err != nil {
		return false, fmt.Errorf("failed to check edit permission for document %s: %w", doc.Id, err)
	}

	g.permissions.SetDefault(cacheKey, perm.CanEdit)
	return perm.CanEdit, nil
}

func (g *StorageGateway) PopulateMetadata(ctx context.Context, doc *entity.Document) error {
	endpoint := g.documentEndpoint(doc, "/metadata")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch metadata for document %s: %w", doc.Id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrDocumentNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("storage server returned %d for document %s metadata", resp.StatusCode, doc.Id)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var meta metadataResponse
	if err := json.Unmarshal(body, &meta); err != nil {
		return fmt.Errorf("invalid metadata response for document %s: %w", doc.Id, err)
	}

	doc.Extension = strings.TrimPrefix(meta.Extension, ".")
	doc.Metadata = datatypes.JSON(body)
	return nil
}

func (g *StorageGateway) Save(ctx context.Context, doc *entity.Document) error {
	if err := g.repo.Upsert(ctx, doc); err != nil {
		return fmt.Errorf("failed to save document %s: %w", doc.Id, err)
	}
	return nil
}

func (g *StorageGateway) documentEndpoint(doc *entity.Document, suffix string) string {
	base := doc.StorageServerUrl
	if base == "" {
		base = g.baseURL
	}
	return fmt.Sprintf("%s/api/workgroups/%s/documents/%s%s",
		strings.TrimSuffix(base, "/"),
		url.PathEscape(doc.WorkGroupId),
		url.PathEscape(doc.Id),
		suffix,
	)
}

func (g *StorageGateway) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("storage server returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
