package opensearch

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/jurimetric/lexmeta/internal/infrastructure/monitoring/logging"
	"github.com/jurimetric/lexmeta/pkg/errors"
)

// CaseQuery describes a case search. Text matches case names; the remaining
// fields are exact filters. Zero values are not applied.
type CaseQuery struct {
	Text            string
	Court           string
	Jurisdiction    string
	Topic           string
	PrevailingParty string
	From            int
	Size            int
}

// CaseHit is one search result.
type CaseHit struct {
	Score    float64
	Document CaseDocument
}

// CaseSearchResult holds the hits plus the total match count.
type CaseSearchResult struct {
	Total  int64
	TookMs int64
	Hits   []CaseHit
}

// Searcher runs queries against the cases index.
type Searcher struct {
	client    *Client
	indexName string
	logger    logging.Logger
}

// NewSearcher builds a Searcher over the same index the Indexer writes to.
func NewSearcher(client *Client, indexPrefix string, logger logging.Logger) *Searcher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if indexPrefix == "" {
		indexPrefix = "lexmeta"
	}
	return &Searcher{
		client:    client,
		indexName: indexPrefix + "-cases",
		logger:    logger.Named("searcher"),
	}
}

// Search executes the query and decodes the hits.
func (s *Searcher) Search(ctx context.Context, q CaseQuery) (*CaseSearchResult, error) {
	body, err := json.Marshal(buildQuery(q))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal search query")
	}

	req := opensearchapi.SearchRequest{
		Index: []string{s.indexName},
		Body:  bytes.NewReader(body),
	}
	resp, err := req.Do(ctx, s.client.GetClient())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "search request failed")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		s.logger.Error("search returned error status", logging.Int("status", resp.StatusCode))
		return nil, errors.New(errors.ErrCodeExternalService, "search failed")
	}

	var envelope struct {
		Took int64 `json:"took"`
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Score  float64         `json:"_score"`
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode search response")
	}

	result := &CaseSearchResult{
		Total:  envelope.Hits.Total.Value,
		TookMs: envelope.Took,
		Hits:   make([]CaseHit, 0, len(envelope.Hits.Hits)),
	}
	for _, hit := range envelope.Hits.Hits {
		var doc CaseDocument
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode case document")
		}
		result.Hits = append(result.Hits, CaseHit{Score: hit.Score, Document: doc})
	}
	return result, nil
}

// buildQuery assembles the bool query body for a CaseQuery.
func buildQuery(q CaseQuery) map[string]interface{} {
	var must []interface{}
	if q.Text != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{"case_name": q.Text},
		})
	}

	var filter []interface{}
	addTerm := func(field, value string) {
		if value != "" {
			filter = append(filter, map[string]interface{}{
				"term": map[string]interface{}{field: value},
			})
		}
	}
	addTerm("court", q.Court)
	addTerm("jurisdiction", q.Jurisdiction)
	addTerm("topic", q.Topic)
	addTerm("prevailing_party", q.PrevailingParty)

	boolQuery := map[string]interface{}{}
	if len(must) > 0 {
		boolQuery["must"] = must
	} else {
		boolQuery["must"] = []interface{}{map[string]interface{}{"match_all": map[string]interface{}{}}}
	}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	size := q.Size
	if size <= 0 {
		size = 20
	} else if size > 100 {
		size = 100
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"size":  size,
	}
	if q.From > 0 {
		body["from"] = q.From
	}
	return body
}
