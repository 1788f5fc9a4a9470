package index

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/fitsthaw/fitsthaw/internal/debug"
	"github.com/fitsthaw/fitsthaw/internal/errors"

	opensearch "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// Client implements Searcher against an OpenSearch cluster. A single client
// is constructed per run and reused for all searches.
type Client struct {
	os  *opensearch.Client
	cfg Config
}

// make sure that *Client implements Searcher
var _ Searcher = &Client{}

// Open connects to the index described by cfg. All requests go through the
// given http.RoundTripper.
func Open(cfg Config, rt http.RoundTripper) (*Client, error) {
	debug.Log("open, config %#v", cfg)

	c, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{cfg.Address},
		Username:  cfg.Username,
		Password:  cfg.Password.Unwrap(),
		Transport: rt,
	})
	if err != nil {
		return nil, errors.Wrap(err, "opensearch.NewClient")
	}

	return &Client{os: c, cfg: cfg}, nil
}

// searchResponse is the part of the search reply the pipeline uses.
type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source Record `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs query against the index and returns the hits in relevance
// order. Each request is bounded by the configured timeout.
func (c *Client) Search(ctx context.Context, query interface{}) ([]Record, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, errors.Wrap(err, "Marshal")
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	debug.Log("search %v: %s", c.cfg.Name, body)

	req := opensearchapi.SearchRequest{
		Index: []string{c.cfg.Name},
		Body:  bytes.NewReader(body),
	}

	res, err := req.Do(ctx, c.os)
	if err != nil {
		return nil, errors.Wrap(err, "SearchRequest.Do")
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.IsError() {
		return nil, errors.Errorf("index search failed: %s", res.String())
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, errors.Wrap(err, "Decode")
	}

	debug.Log("search returned %d hits", len(sr.Hits.Hits))

	records := make([]Record, 0, len(sr.Hits.Hits))
	for _, hit := range sr.Hits.Hits {
		records = append(records, hit.Source)
	}

	return records, nil
}
