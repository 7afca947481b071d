package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/jurimetric/lexmeta/internal/infrastructure/monitoring/logging"
	"github.com/jurimetric/lexmeta/pkg/errors"
	"github.com/jurimetric/lexmeta/pkg/types/caselaw"
)

var (
	ErrIndexNotFound       = errors.New(errors.ErrCodeNotFound, "index not found")
	ErrDocumentIndexFailed = errors.New(errors.ErrCodeCaseIndexFailed, "document index failed")
)

// caseMapping declares the fields the search layer filters and ranks on.
// Everything else rides along in the metadata object with dynamic mapping.
const caseMapping = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 1
	},
	"mappings": {
		"properties": {
			"case_name":          {"type": "text"},
			"citation":           {"type": "keyword"},
			"date_filed":         {"type": "keyword"},
			"court":              {"type": "keyword"},
			"jurisdiction":       {"type": "keyword"},
			"judges":             {"type": "keyword"},
			"topic":              {"type": "keyword"},
			"cause_of_action":    {"type": "keyword"},
			"industry":           {"type": "keyword"},
			"procedural_posture": {"type": "keyword"},
			"disposition":        {"type": "keyword"},
			"prevailing_party":   {"type": "keyword"},
			"monetary_damages":   {"type": "double"},
			"indexed_at":         {"type": "date"}
		}
	}
}`

// CaseDocument is the shape stored in the search index.
type CaseDocument struct {
	CaseID            string    `json:"case_id"`
	CaseName          string    `json:"case_name"`
	Citation          string    `json:"citation,omitempty"`
	DateFiled         string    `json:"date_filed,omitempty"`
	Court             string    `json:"court,omitempty"`
	Jurisdiction      string    `json:"jurisdiction,omitempty"`
	Judges            []string  `json:"judges,omitempty"`
	Topic             string    `json:"topic,omitempty"`
	CauseOfAction     string    `json:"cause_of_action,omitempty"`
	Industry          string    `json:"industry,omitempty"`
	ProceduralPosture string    `json:"procedural_posture,omitempty"`
	Disposition       string    `json:"disposition,omitempty"`
	PrevailingParty   string    `json:"prevailing_party,omitempty"`
	MonetaryDamages   *float64  `json:"monetary_damages,omitempty"`
	IndexedAt         time.Time `json:"indexed_at"`
}

// NewCaseDocument flattens a CaseMetadata into its indexed form.
func NewCaseDocument(caseID string, m *caselaw.CaseMetadata) CaseDocument {
	return CaseDocument{
		CaseID:            caseID,
		CaseName:          m.CaseName,
		Citation:          m.Citation,
		DateFiled:         m.DateFiled,
		Court:             m.CourtName,
		Jurisdiction:      m.JurisdictionLevel,
		Judges:            m.Judges,
		Topic:             m.PrimaryTopic,
		CauseOfAction:     m.SpecificCauseOfAction,
		Industry:          m.IndustrySector,
		ProceduralPosture: m.ProceduralPosture,
		Disposition:       m.Disposition,
		PrevailingParty:   m.PrevailingParty,
		MonetaryDamages:   m.MonetaryDamages,
		IndexedAt:         time.Now().UTC(),
	}
}

// Indexer writes case documents into the cases index.
type Indexer struct {
	client    *Client
	indexName string
	logger    logging.Logger
}

// NewIndexer builds an Indexer. The index name is derived from the prefix,
// e.g. "lexmeta" becomes "lexmeta-cases".
func NewIndexer(client *Client, indexPrefix string, logger logging.Logger) *Indexer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if indexPrefix == "" {
		indexPrefix = "lexmeta"
	}
	return &Indexer{
		client:    client,
		indexName: indexPrefix + "-cases",
		logger:    logger.Named("indexer"),
	}
}

// IndexName returns the fully derived index name.
func (i *Indexer) IndexName() string {
	return i.indexName
}

// EnsureIndex creates the cases index with its mapping if it does not exist.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	exists, err := i.indexExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	req := opensearchapi.IndicesCreateRequest{
		Index: i.indexName,
		Body:  strings.NewReader(caseMapping),
	}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to create index")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return i.errorResponse(resp, "create index failed")
	}

	i.logger.Info("index created", logging.String("index", i.indexName))
	return nil
}

// IndexCase writes one case document, replacing any previous version.
func (i *Indexer) IndexCase(ctx context.Context, doc CaseDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal case document")
	}

	req := opensearchapi.IndexRequest{
		Index:      i.indexName,
		DocumentID: doc.CaseID,
		Body:       bytes.NewReader(body),
	}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCaseIndexFailed, "failed to index case")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return i.errorResponse(resp, "index case failed")
	}

	i.logger.Debug("case indexed", logging.String("case_id", doc.CaseID))
	return nil
}

// BulkIndexCases writes several documents in one bulk request and returns
// the number that succeeded.
func (i *Indexer) BulkIndexCases(ctx context.Context, docs []CaseDocument) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	for _, doc := range docs {
		meta := fmt.Sprintf(`{"index":{"_index":%q,"_id":%q}}`, i.indexName, doc.CaseID)
		buf.WriteString(meta)
		buf.WriteByte('\n')
		body, err := json.Marshal(doc)
		if err != nil {
			return 0, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal case document")
		}
		buf.Write(body)
		buf.WriteByte('\n')
	}

	req := opensearchapi.BulkRequest{Body: bytes.NewReader(buf.Bytes())}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeCaseIndexFailed, "bulk index failed")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return 0, i.errorResponse(resp, "bulk index failed")
	}

	var bulkResp struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode bulk response")
	}

	succeeded := 0
	for _, item := range bulkResp.Items {
		for _, detail := range item {
			if detail.Status >= 200 && detail.Status < 300 {
				succeeded++
			}
		}
	}

	i.logger.Info("bulk index complete",
		logging.Int("total", len(docs)),
		logging.Int("succeeded", succeeded))
	return succeeded, nil
}

// DeleteCase removes a case document from the index.
func (i *Indexer) DeleteCase(ctx context.Context, caseID string) error {
	req := opensearchapi.DeleteRequest{
		Index:      i.indexName,
		DocumentID: caseID,
	}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to delete case document")
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 {
		return errors.New(errors.ErrCodeCaseNotFound, "case not indexed").WithDetail(caseID)
	}
	if resp.IsError() {
		return i.errorResponse(resp, "delete case failed")
	}
	return nil
}

func (i *Indexer) indexExists(ctx context.Context) (bool, error) {
	req := opensearchapi.IndicesExistsRequest{Index: []string{i.indexName}}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeExternalService, "failed to check index existence")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case 200:
		return true, nil
	case 404:
		return false, nil
	default:
		return false, i.errorResponse(resp, "check index existence failed")
	}
}

func (i *Indexer) errorResponse(resp *opensearchapi.Response, msg string) error {
	body, _ := io.ReadAll(resp.Body)
	i.logger.Error(msg,
		logging.Int("status", resp.StatusCode),
		logging.String("body", string(body)))
	return errors.New(errors.ErrCodeCaseIndexFailed, msg).
		WithDetail(fmt.Sprintf("status %d", resp.StatusCode))
}
