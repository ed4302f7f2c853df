// Package search keeps an Elasticsearch index of sellers for free-text search.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/fekuna/omnipos-seller-cms/config"
	"github.com/fekuna/omnipos-seller-cms/internal/model"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"go.uber.org/zap"
)

// maxHits bounds a search; it matches the default index.max_result_window.
const maxHits = 10000

var searchFields = []string{"firstName", "lastName", "businessName", "email", "referredBy"}

type document struct {
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	BusinessName string `json:"businessName,omitempty"`
	Email        string `json:"email,omitempty"`
	ReferredBy   string `json:"referredBy,omitempty"`
	Status       string `json:"status,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

type ElasticIndex struct {
	client *elasticsearch.Client
	index  string
	logger logger.ZapLogger
}

func NewElasticIndex(cfg config.ElasticsearchConfig, log logger.ZapLogger) (*ElasticIndex, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("init elasticsearch client: %w", err)
	}
	return NewElasticIndexWithClient(client, cfg.Index, log), nil
}

func NewElasticIndexWithClient(client *elasticsearch.Client, index string, log logger.ZapLogger) *ElasticIndex {
	if strings.TrimSpace(index) == "" {
		index = "sellers"
	}
	return &ElasticIndex{client: client, index: index, logger: log}
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (x *ElasticIndex) EnsureIndex(ctx context.Context) error {
	res, err := x.client.Indices.Exists([]string{x.index}, x.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		if res.IsError() {
			return responseError("index existence", res.Status(), res.Body)
		}
		return nil
	}

	body, err := indexDefinition()
	if err != nil {
		return err
	}
	createRes, err := x.client.Indices.Create(
		x.index,
		x.client.Indices.Create.WithContext(ctx),
		x.client.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer createRes.Body.Close()
	if createRes.IsError() {
		return responseError("create index", createRes.Status(), createRes.Body)
	}
	x.logger.Info("seller index created", zap.String("index", x.index))
	return nil
}

// Sync indexes every seller and deletes documents of sellers that are gone.
func (x *ElasticIndex) Sync(ctx context.Context, sellers []model.Seller) error {
	ids := make([]string, 0, len(sellers))
	if len(sellers) > 0 {
		var buf bytes.Buffer
		for _, s := range sellers {
			if s.ID == "" {
				continue
			}
			ids = append(ids, s.ID)
			action := map[string]any{"index": map[string]any{"_index": x.index, "_id": s.ID}}
			if err := writeLine(&buf, action); err != nil {
				return err
			}
			if err := writeLine(&buf, toDocument(s)); err != nil {
				return err
			}
		}
		if err := x.bulk(ctx, &buf); err != nil {
			return err
		}
	}

	query := map[string]any{"match_all": map[string]any{}}
	if len(ids) > 0 {
		query = map[string]any{"bool": map[string]any{
			"must_not": map[string]any{"ids": map[string]any{"values": ids}},
		}}
	}
	body, err := json.Marshal(map[string]any{"query": query})
	if err != nil {
		return fmt.Errorf("encode stale query: %w", err)
	}
	res, err := x.client.DeleteByQuery(
		[]string{x.index},
		bytes.NewReader(body),
		x.client.DeleteByQuery.WithContext(ctx),
		x.client.DeleteByQuery.WithRefresh(true),
	)
	if err != nil {
		return fmt.Errorf("delete stale sellers: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("delete stale sellers", res.Status(), res.Body)
	}
	x.logger.Debug("seller index synced", zap.Int("sellers", len(ids)))
	return nil
}

func (x *ElasticIndex) bulk(ctx context.Context, body io.Reader) error {
	res, err := x.client.Bulk(
		body,
		x.client.Bulk.WithContext(ctx),
		x.client.Bulk.WithIndex(x.index),
		x.client.Bulk.WithRefresh("wait_for"),
	)
	if err != nil {
		return fmt.Errorf("bulk index sellers: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("bulk index sellers", res.Status(), res.Body)
	}

	var out struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if out.Errors {
		return errors.New("bulk index sellers: some documents were rejected")
	}
	return nil
}

// Search returns the ids of sellers whose searchable fields contain query,
// ignoring case.
func (x *ElasticIndex) Search(ctx context.Context, query string) ([]string, error) {
	pattern := "*" + escapeWildcard(strings.ToLower(query)) + "*"
	should := make([]any, 0, len(searchFields))
	for _, f := range searchFields {
		should = append(should, map[string]any{
			"wildcard": map[string]any{f: map[string]any{"value": pattern, "case_insensitive": true}},
		})
	}
	body, err := json.Marshal(map[string]any{
		"size":    maxHits,
		"_source": false,
		"query": map[string]any{"bool": map[string]any{
			"should":               should,
			"minimum_should_match": 1,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode search: %w", err)
	}

	res, err := x.client.Search(
		x.client.Search.WithContext(ctx),
		x.client.Search.WithIndex(x.index),
		x.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search sellers: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("search sellers", res.Status(), res.Body)
	}

	var out struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	ids := make([]string, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

func toDocument(s model.Seller) document {
	return document{
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		BusinessName: s.BusinessName,
		Email:        s.Email,
		ReferredBy:   s.ReferredBy,
		Status:       string(s.Status),
		CreatedAt:    s.CreatedAt,
	}
}

func indexDefinition() ([]byte, error) {
	properties := map[string]any{
		"status":    map[string]any{"type": "keyword"},
		"createdAt": map[string]any{"type": "keyword"},
	}
	for _, f := range searchFields {
		properties[f] = map[string]any{"type": "keyword", "ignore_above": 256}
	}
	payload, err := json.Marshal(map[string]any{
		"settings": map[string]any{"number_of_shards": 1, "number_of_replicas": 0},
		"mappings": map[string]any{"properties": properties},
	})
	if err != nil {
		return nil, fmt.Errorf("encode index definition: %w", err)
	}
	return payload, nil
}

func writeLine(buf *bytes.Buffer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode bulk line: %w", err)
	}
	buf.Write(raw)
	buf.WriteByte('\n')
	return nil
}

func escapeWildcard(s string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`).Replace(s)
}

func responseError(op, status string, body io.Reader) error {
	raw, _ := io.ReadAll(body)
	return fmt.Errorf("%s status %s: %s", op, status, strings.TrimSpace(string(raw)))
}
