package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	"github.com/oksasatya/devconnector/internal/domain/repository"
)

const requestTimeout = 3 * time.Second

// ProfileIndex mirrors profiles into an Elasticsearch index keyed by user id.
type ProfileIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewProfileIndex(es *elasticsearch.Client, index string) *ProfileIndex {
	if index == "" {
		index = "profiles"
	}
	return &ProfileIndex{ES: es, IndexName: index}
}

func (x *ProfileIndex) Index(ctx context.Context, p *entity.Profile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.IndexName, DocumentID: p.UserID, Body: bytes.NewReader(b), Refresh: "false"}
	if p.Version > 0 {
		// external versioning: an older write arriving late is rejected with 409
		v := int(p.Version)
		req.Version = &v
		req.VersionType = "external"
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode == http.StatusConflict && p.Version > 0 {
		return nil // a newer version is already indexed
	}
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// Remove deletes the profile document. A missing document is not an error.
func (x *ProfileIndex) Remove(ctx context.Context, userID string) error {
	req := esapi.DeleteRequest{Index: x.IndexName, DocumentID: userID}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return fmt.Errorf("es delete: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match over handle, skills, status and the owner's name.
func (x *ProfileIndex) Search(ctx context.Context, q string, size int) ([]entity.Profile, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"handle^3", "skills^2", "status", "company", "location", "bio", "user.name"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.IndexName),
		x.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source entity.Profile `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("es search decode: %w", err)
	}

	out := make([]entity.Profile, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

var _ repository.ProfileIndex = (*ProfileIndex)(nil)
