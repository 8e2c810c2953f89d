package activity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticsearchConfig holds configuration options for the Elasticsearch archive
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
	Transport   http.RoundTripper // optional, for tests and custom TLS
}

const activityMapping = `{
	"mappings": {
		"properties": {
			"bet_id": { "type": "keyword" },
			"creator_id": { "type": "keyword" },
			"title": { "type": "text" },
			"category": { "type": "keyword" },
			"status": { "type": "keyword" },
			"result": { "type": "keyword" },
			"model": { "type": "keyword" },
			"total_pool": { "type": "long" },
			"for_pool": { "type": "long" },
			"against_pool": { "type": "long" },
			"closed_at": { "type": "date" },
			"participants": {
				"type": "nested",
				"properties": {
					"user_id": { "type": "keyword" },
					"choice": { "type": "keyword" },
					"stake": { "type": "long" },
					"payout": { "type": "long" },
					"won": { "type": "boolean" },
					"refunded": { "type": "long" }
				}
			}
		}
	}
}`

// ElasticsearchArchive implements Archive on an Elasticsearch index
type ElasticsearchArchive struct {
	client *elasticsearch.Client
	index  string
}

// NewElasticsearchArchive connects to Elasticsearch and creates the activity
// index if it doesn't exist
func NewElasticsearchArchive(ctx context.Context, config ElasticsearchConfig) (*ElasticsearchArchive, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
		Transport: config.Transport,
	}

	// Add authentication if provided
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	prefix := config.IndexPrefix
	if prefix == "" {
		prefix = "friendbet"
	}

	archive := &ElasticsearchArchive{
		client: client,
		index:  prefix + "_activity",
	}

	if err := archive.initIndex(ctx); err != nil {
		return nil, fmt.Errorf("error initializing index: %w", err)
	}

	return archive, nil
}

// initIndex creates the activity index if it doesn't exist
func (a *ElasticsearchArchive) initIndex(ctx context.Context) error {
	res, err := a.client.Indices.Exists([]string{a.index}, a.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error checking if activity index exists: %w", err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		return nil
	}

	req := esapi.IndicesCreateRequest{
		Index: a.index,
		Body:  bytes.NewReader([]byte(activityMapping)),
	}

	res, err = req.Do(ctx, a.client)
	if err != nil {
		return fmt.Errorf("error creating activity index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating activity index: %s", res.String())
	}
	return nil
}

// Archive implements Archive
func (a *ElasticsearchArchive) Archive(ctx context.Context, rec *Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("error marshaling activity record: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      a.index,
		DocumentID: rec.BetID,
		Body:       bytes.NewReader(body),
	}

	res, err := req.Do(ctx, a.client)
	if err != nil {
		return fmt.Errorf("error indexing activity record: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing activity record: %s", res.String())
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source Record `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Recent implements Archive
func (a *ElasticsearchArchive) Recent(ctx context.Context, limit int) ([]*Record, error) {
	return a.search(ctx, map[string]interface{}{"match_all": map[string]interface{}{}}, limit)
}

// RecentBy implements Archive
func (a *ElasticsearchArchive) RecentBy(ctx context.Context, creatorIDs []string, limit int) ([]*Record, error) {
	if len(creatorIDs) == 0 {
		return []*Record{}, nil
	}
	return a.search(ctx, map[string]interface{}{
		"terms": map[string]interface{}{"creator_id": creatorIDs},
	}, limit)
}

// search runs query against the activity index, newest closed bets first
func (a *ElasticsearchArchive) search(ctx context.Context, query map[string]interface{}, limit int) ([]*Record, error) {
	body := map[string]interface{}{
		"query": query,
		"sort": []map[string]interface{}{
			{"closed_at": map[string]string{"order": "desc"}},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("error encoding query: %w", err)
	}

	res, err := a.client.Search(
		a.client.Search.WithContext(ctx),
		a.client.Search.WithIndex(a.index),
		a.client.Search.WithBody(&buf),
		a.client.Search.WithSize(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("error searching activity: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching activity: %s", res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("error parsing search response: %w", err)
	}

	records := make([]*Record, 0, len(parsed.Hits.Hits))
	for i := range parsed.Hits.Hits {
		rec := parsed.Hits.Hits[i].Source
		records = append(records, &rec)
	}
	return records, nil
}
