// Package caselaw provides the application-level service that drives the
// extraction pipeline: load an opinion, extract its metadata, persist the
// record, then index, publish, and archive it.
package caselaw

import (
	"context"
	"time"

	"github.com/jurimetric/lexmeta/internal/infrastructure/database/postgres/repositories"
	"github.com/jurimetric/lexmeta/internal/infrastructure/messaging/kafka"
	"github.com/jurimetric/lexmeta/internal/infrastructure/monitoring/logging"
	"github.com/jurimetric/lexmeta/internal/infrastructure/search/opensearch"
	"github.com/jurimetric/lexmeta/internal/infrastructure/storage/minio"
	"github.com/jurimetric/lexmeta/internal/loader"
	"github.com/jurimetric/lexmeta/pkg/errors"
	caselawtypes "github.com/jurimetric/lexmeta/pkg/types/caselaw"
)

const eventSource = "lexmeta"

// Extractor produces case metadata from opinion text.
type Extractor interface {
	Extract(text string) *caselawtypes.CaseMetadata
}

// Repository persists case records.
type Repository interface {
	Save(ctx context.Context, rec *repositories.CaseRecord) error
	GetByID(ctx context.Context, id string) (*repositories.CaseRecord, error)
	List(ctx context.Context, filter repositories.ListFilter) ([]*repositories.CaseRecord, error)
	Count(ctx context.Context) (int64, error)
}

// Cache memoises extractions by opinion text.
type Cache interface {
	GetOrCompute(ctx context.Context, text string, compute func() (*caselawtypes.CaseMetadata, error)) (*caselawtypes.CaseMetadata, bool, error)
}

// Indexer feeds the search index.
type Indexer interface {
	IndexCase(ctx context.Context, doc opensearch.CaseDocument) error
}

// Publisher emits pipeline events.
type Publisher interface {
	Publish(ctx context.Context, msg *kafka.ProducerMessage) error
}

// Archive stores raw opinion texts.
type Archive interface {
	Store(ctx context.Context, caseID, citation, text string) (*minio.ArchiveResult, error)
}

// DocumentSource reads opinion files.
type DocumentSource interface {
	ReadFile(path string) (*loader.Document, error)
	ReadDir(dir string) ([]*loader.Document, error)
}

// ProcessResult reports what happened to one opinion.
type ProcessResult struct {
	CaseID   string                     `json:"case_id"`
	Source   string                     `json:"source,omitempty"`
	Cached   bool                       `json:"cached"`
	Indexed  bool                       `json:"indexed"`
	Archived bool                       `json:"archived"`
	Metadata *caselawtypes.CaseMetadata `json:"metadata"`
}

// BatchResult summarises a directory run.
type BatchResult struct {
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Results   []*ProcessResult `json:"results"`
}

// Service orchestrates the extraction pipeline. Extractor and Repository
// are required; cache, indexer, publisher, and archive are optional and the
// pipeline degrades gracefully when they are absent or failing.
type Service struct {
	extractor Extractor
	repo      Repository
	source    DocumentSource
	cache     Cache
	indexer   Indexer
	publisher Publisher
	archive   Archive
	logger    logging.Logger
}

// Option configures optional pipeline stages.
type Option func(*Service)

// WithCache enables extraction memoisation.
func WithCache(c Cache) Option { return func(s *Service) { s.cache = c } }

// WithIndexer enables search indexing.
func WithIndexer(i Indexer) Option { return func(s *Service) { s.indexer = i } }

// WithPublisher enables event publishing.
func WithPublisher(p Publisher) Option { return func(s *Service) { s.publisher = p } }

// WithArchive enables raw-opinion archival.
func WithArchive(a Archive) Option { return func(s *Service) { s.archive = a } }

// WithLogger sets the service logger.
func WithLogger(l logging.Logger) Option { return func(s *Service) { s.logger = l } }

// NewService wires the pipeline together.
func NewService(extractor Extractor, repo Repository, source DocumentSource, opts ...Option) *Service {
	s := &Service{
		extractor: extractor,
		repo:      repo,
		source:    source,
		logger:    logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("caselaw")
	return s
}

// ExtractText runs extraction only, consulting the cache when configured.
// The returned bool reports a cache hit.
func (s *Service) ExtractText(ctx context.Context, text string) (*caselawtypes.CaseMetadata, bool, error) {
	if text == "" {
		return nil, false, errors.New(errors.ErrCodeDocumentEmpty, "opinion text is empty")
	}
	if s.cache == nil {
		return s.extractor.Extract(text), false, nil
	}
	return s.cache.GetOrCompute(ctx, text, func() (*caselawtypes.CaseMetadata, error) {
		return s.extractor.Extract(text), nil
	})
}

// ProcessText runs the full pipeline on in-memory text: extract, persist,
// then best-effort index, publish, and archive.
func (s *Service) ProcessText(ctx context.Context, text, sourcePath string) (*ProcessResult, error) {
	meta, cached, err := s.ExtractText(ctx, text)
	if err != nil {
		return nil, err
	}

	rec := &repositories.CaseRecord{SourcePath: sourcePath, Metadata: meta}
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}

	result := &ProcessResult{
		CaseID:   rec.ID,
		Source:   sourcePath,
		Cached:   cached,
		Metadata: meta,
	}

	// Downstream stages are best-effort: a search, broker, or storage
	// outage must not lose the persisted record.
	if s.indexer != nil {
		if err := s.indexer.IndexCase(ctx, opensearch.NewCaseDocument(rec.ID, meta)); err != nil {
			s.logger.Warn("case indexing failed",
				logging.String("case_id", rec.ID), logging.Err(err))
		} else {
			result.Indexed = true
		}
	}

	if s.archive != nil {
		if _, err := s.archive.Store(ctx, rec.ID, meta.Citation, text); err != nil {
			s.logger.Warn("opinion archival failed",
				logging.String("case_id", rec.ID), logging.Err(err))
		} else {
			result.Archived = true
		}
	}

	s.publishExtracted(ctx, rec, meta)
	return result, nil
}

// ProcessFile loads one opinion file and runs the pipeline on it.
func (s *Service) ProcessFile(ctx context.Context, path string) (*ProcessResult, error) {
	doc, err := s.source.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.ProcessText(ctx, doc.Text, doc.Path)
}

// ProcessDir runs the pipeline over every opinion in a directory. Failures
// on individual documents are counted, not fatal.
func (s *Service) ProcessDir(ctx context.Context, dir string) (*BatchResult, error) {
	docs, err := s.source.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	batch := &BatchResult{Total: len(docs)}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		result, err := s.ProcessText(ctx, doc.Text, doc.Path)
		if err != nil {
			batch.Failed++
			s.logger.Warn("document processing failed",
				logging.String("path", doc.Path), logging.Err(err))
			continue
		}
		batch.Succeeded++
		batch.Results = append(batch.Results, result)
	}

	s.logger.Info("batch complete",
		logging.String("dir", dir),
		logging.Int("total", batch.Total),
		logging.Int("succeeded", batch.Succeeded),
		logging.Int("failed", batch.Failed),
		logging.Duration("elapsed", time.Since(start)))
	return batch, nil
}

// GetCase fetches a stored case record.
func (s *Service) GetCase(ctx context.Context, id string) (*repositories.CaseRecord, error) {
	return s.repo.GetByID(ctx, id)
}

// ListCases lists stored case records.
func (s *Service) ListCases(ctx context.Context, filter repositories.ListFilter) ([]*repositories.CaseRecord, error) {
	return s.repo.List(ctx, filter)
}

// CountCases returns the number of stored cases.
func (s *Service) CountCases(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) publishExtracted(ctx context.Context, rec *repositories.CaseRecord, meta *caselawtypes.CaseMetadata) {
	if s.publisher == nil {
		return
	}

	env, err := kafka.NewEventEnvelope("case.extracted", eventSource, kafka.CaseExtractedPayload{
		CaseID:         rec.ID,
		CaseName:       meta.CaseName,
		Citation:       meta.Citation,
		Court:          meta.CourtName,
		DateFiled:      meta.DateFiled,
		SourcePath:     rec.SourcePath,
		ResolvedFields: resolvedFields(meta),
		ExtractedAt:    time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("event envelope failed", logging.Err(err))
		return
	}

	msg, err := env.ToMessage(kafka.TopicCaseExtracted, rec.ID)
	if err != nil {
		s.logger.Warn("event encoding failed", logging.Err(err))
		return
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.logger.Warn("event publish failed",
			logging.String("case_id", rec.ID), logging.Err(err))
	}
}

// resolvedFields counts the metadata fields the extractor managed to fill.
func resolvedFields(m *caselawtypes.CaseMetadata) int {
	n := 0
	for _, s := range []string{
		m.CaseName, m.Citation, m.DateFiled, m.CourtName, m.JurisdictionLevel,
		m.PrimaryTopic, m.SpecificCauseOfAction, m.IndustrySector,
		m.ProceduralPosture, m.Disposition, m.PrevailingParty,
	} {
		if s != "" {
			n++
		}
	}
	for _, xs := range [][]string{m.Judges, m.CounselPlaintiff, m.CounselDefense, m.EvidenceTypes} {
		if len(xs) > 0 {
			n++
		}
	}
	if len(m.Plaintiffs) > 0 || len(m.Defendants) > 0 {
		n++
	}
	if m.MonetaryDamages != nil {
		n++
	}
	return n
}
