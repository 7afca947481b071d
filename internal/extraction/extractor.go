// Package extraction implements the rule-based metadata extraction pipeline
// for U.S. court opinions.  Given raw opinion text it runs each field
// extractor in a fixed order over the pattern catalog in
// internal/extraction/patterns and assembles one caselaw.CaseMetadata record.
//
// The contract is best-effort heuristic extraction with explicit nulls:
// Extract never fails and never panics — an unmatched or misbehaving field
// is left unresolved, and partial extraction is success.
package extraction

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jurimetric/lexmeta/internal/extraction/patterns"
	"github.com/jurimetric/lexmeta/internal/infrastructure/monitoring/logging"
	"github.com/jurimetric/lexmeta/pkg/types/caselaw"
)

// Metrics records operational telemetry for the pipeline.
type Metrics interface {
	RecordExtraction(durationMs float64, resolvedFields int)
}

type noopMetrics struct{}

func (noopMetrics) RecordExtraction(float64, int) {}

// Config holds tuneable parameters for the pipeline.
type Config struct {
	// BatchConcurrency bounds the number of documents extracted in parallel
	// by ExtractBatch.  Zero or negative means sequential.
	BatchConcurrency int `mapstructure:"batch_concurrency"`
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() Config {
	return Config{BatchConcurrency: 4}
}

// Extractor is the extraction pipeline.  It is stateless apart from injected
// observability and safe for concurrent use: the pattern catalog is read-only
// and every Extract call builds a fresh record.
type Extractor struct {
	config  Config
	logger  logging.Logger
	metrics Metrics
}

// Option customises an Extractor.
type Option func(*Extractor)

// WithLogger injects a structured logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// WithMetrics injects a metrics recorder.
func WithMetrics(m Metrics) Option {
	return func(e *Extractor) { e.metrics = m }
}

// New constructs an Extractor.
func New(cfg Config, opts ...Option) *Extractor {
	e := &Extractor{
		config:  cfg,
		logger:  logging.NewNopLogger(),
		metrics: noopMetrics{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs the full pipeline over one opinion text.  It is a pure
// function of the input: identical text yields an identical record, and no
// input — empty, malformed, or adversarial — produces an error.  Worst case
// is a record with every field unresolved.
func (e *Extractor) Extract(text string) *caselaw.CaseMetadata {
	start := time.Now()
	meta := caselaw.NewCaseMetadata()
	lower := strings.ToLower(text)

	// Field order matters: parties are derived from the case name, and
	// prevailing party depends on the disposition.
	e.guard("case_name", func() { meta.CaseName = extractCaseName(text) })
	e.guard("citation", func() { meta.Citation = extractCitation(text) })
	e.guard("date_filed", func() { meta.DateFiled = extractDate(text) })
	e.guard("court", func() {
		name, level := extractCourt(text)
		meta.CourtName = name
		meta.JurisdictionLevel = level
	})
	e.guard("judges", func() { meta.Judges = extractJudges(text) })
	e.guard("parties", func() {
		meta.Plaintiffs, meta.Defendants = deriveParties(meta.CaseName)
	})
	e.guard("counsel", func() {
		meta.CounselPlaintiff, meta.CounselDefense = extractCounsel(text)
	})
	e.guard("topics", func() {
		meta.PrimaryTopic, meta.SpecificCauseOfAction = extractTopics(lower)
	})
	e.guard("industry", func() { meta.IndustrySector = extractIndustry(lower) })
	e.guard("posture", func() { meta.ProceduralPosture = extractPosture(lower) })
	e.guard("disposition", func() { meta.Disposition = extractDisposition(lower) })
	e.guard("prevailing_party", func() {
		meta.PrevailingParty = extractPrevailingParty(lower, meta.Disposition)
	})
	e.guard("damages", func() { meta.MonetaryDamages = extractDamages(text) })
	e.guard("evidence", func() { meta.EvidenceTypes = extractEvidenceTypes(lower) })

	e.metrics.RecordExtraction(float64(time.Since(start).Milliseconds()), countResolved(meta))
	return meta
}

// ExtractBatch extracts many documents with bounded concurrency.  Each
// document is independent; the only error is context cancellation, in which
// case unprocessed slots hold empty records.
func (e *Extractor) ExtractBatch(ctx context.Context, texts []string) ([]*caselaw.CaseMetadata, error) {
	results := make([]*caselaw.CaseMetadata, len(texts))
	if len(texts) == 0 {
		return results, nil
	}

	concurrency := e.config.BatchConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, txt := range texts {
		wg.Add(1)
		go func(idx int, t string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				results[idx] = caselaw.NewCaseMetadata()
				return
			}
			results[idx] = e.Extract(t)
		}(i, txt)
	}
	wg.Wait()

	return results, ctx.Err()
}

// guard runs one field extractor and converts a panic into "field
// unresolved".  A single bad field must not suppress the rest of the record.
func (e *Extractor) guard(field string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug("field extractor panicked, leaving field unresolved",
				logging.String("field", field), logging.Any("panic", r))
		}
	}()
	fn()
}

// ─────────────────────────────────────────────────────────────────────────────
// Case name & parties
// ─────────────────────────────────────────────────────────────────────────────

// extractCaseName resolves "<Plaintiff> v. <Defendant>" with a two-phase
// strategy.  Phase A scans the whole text for labeled caption blocks
// (plaintiff block + Plaintiff/Petitioner/Appellant label, defendant block +
// Defendant/Respondent/Appellee label).  Phase B falls back to a line-by-line
// scan of the document head for a same-line "X v. Y" caption.
func extractCaseName(text string) string {
	pm := patterns.PlaintiffCaption.FindStringSubmatch(text)
	dm := patterns.DefendantCaption.FindStringSubmatch(text)
	if pm != nil && dm != nil {
		plaintiff := cleanPartyName(pm[1])
		defendant := cleanPartyName(dm[1])
		if len(plaintiff) >= patterns.MinPartyNameLen && len(defendant) >= patterns.MinPartyNameLen {
			return plaintiff + " v. " + defendant
		}
	}

	lines := strings.Split(text, "\n")
	if len(lines) > patterns.CaptionScanLines {
		lines = lines[:patterns.CaptionScanLines]
	}
	for _, line := range lines {
		m := patterns.CaseName.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		plaintiff := cleanPartyName(m[1])
		defendant := cleanPartyName(m[2])
		if len(plaintiff) >= patterns.MinPartyNameLen && len(defendant) >= patterns.MinPartyNameLen {
			return plaintiff + " v. " + defendant
		}
	}
	return ""
}

func cleanPartyName(name string) string {
	name = patterns.Whitespace.ReplaceAllString(name, " ")
	return strings.Trim(name, " ,.")
}

// deriveParties splits a resolved case name into exactly one plaintiff and
// one defendant.  Parties are never populated independently of the case
// name: no caption, no parties — a documented limitation, not a gap to be
// papered over.
func deriveParties(caseName string) ([]caselaw.Party, []caselaw.Party) {
	plaintiffs := []caselaw.Party{}
	defendants := []caselaw.Party{}
	if caseName == "" || !strings.Contains(caseName, " v. ") {
		return plaintiffs, defendants
	}
	parts := strings.SplitN(caseName, " v. ", 2)
	p := strings.TrimSpace(parts[0])
	d := strings.TrimSpace(parts[1])
	plaintiffs = append(plaintiffs, caselaw.Party{Name: p, Type: classifyPartyType(p)})
	defendants = append(defendants, caselaw.Party{Name: d, Type: classifyPartyType(d)})
	return plaintiffs, defendants
}

// classifyPartyType reads the party type off the name's surface form.
// Government keywords are checked before corporate ones: names like
// "Securities and Exchange Commission" carry corporate-sounding words and
// must still classify as Government.
func classifyPartyType(name string) caselaw.PartyType {
	lower := strings.ToLower(name)
	for _, kw := range patterns.GovernmentKeywords {
		if strings.Contains(lower, kw) {
			return caselaw.PartyGovernment
		}
	}
	for _, kw := range patterns.CorporateKeywords {
		if strings.Contains(lower, kw) {
			return caselaw.PartyCorporation
		}
	}
	return caselaw.PartyIndividual
}

// ─────────────────────────────────────────────────────────────────────────────
// Citation, date, court
// ─────────────────────────────────────────────────────────────────────────────

func extractCitation(text string) string {
	for _, re := range patterns.Citations {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func extractDate(text string) string {
	for _, re := range patterns.Dates {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		for _, layout := range patterns.DateLayouts {
			if t, err := time.Parse(layout, m[1]); err == nil {
				return t.Format("2006-01-02")
			}
		}
	}
	return ""
}

func extractCourt(text string) (string, string) {
	for _, cp := range patterns.Courts {
		m := cp.Re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := cp.Template
		if strings.Contains(name, "{}") && len(m) > 1 {
			name = strings.Replace(name, "{}", m[1], 1)
		}
		return name, string(cp.Level)
	}
	return "", ""
}

// ─────────────────────────────────────────────────────────────────────────────
// Judges
// ─────────────────────────────────────────────────────────────────────────────

// extractJudges pools matches from all judge patterns over the whole
// document, deduplicates in first-seen order, drops block-listed candidates,
// and truncates to the cap.  No further ranking.
func extractJudges(text string) []string {
	seen := make(map[string]struct{})
	judges := []string{}
	for _, re := range patterns.Judges {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(m[1])
			if len(name) <= 3 || isJudgeFalsePositive(name) {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			judges = append(judges, name)
		}
	}
	if len(judges) > patterns.MaxJudges {
		judges = judges[:patterns.MaxJudges]
	}
	return judges
}

func isJudgeFalsePositive(name string) bool {
	lower := strings.ToLower(name)
	for _, fp := range patterns.JudgeFalsePositives {
		if strings.Contains(lower, fp) {
			return true
		}
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Counsel
// ─────────────────────────────────────────────────────────────────────────────

func extractCounsel(text string) ([]string, []string) {
	plaintiff := []string{}
	defense := []string{}
	if m := patterns.CounselPlaintiff.FindStringSubmatch(text); m != nil {
		plaintiff = parseAttorneyNames(m[1])
	}
	if m := patterns.CounselDefense.FindStringSubmatch(text); m != nil {
		defense = parseAttorneyNames(m[1])
	}
	return plaintiff, defense
}

// parseAttorneyNames splits a captured counsel block on ";", "," and the
// word "and", keeping fragments that look like names rather than clause
// debris, capped per side.
func parseAttorneyNames(block string) []string {
	names := []string{}
	for _, part := range patterns.AttorneySplit.Split(block, -1) {
		part = strings.TrimSpace(part)
		if len(part) <= 3 {
			continue
		}
		if hasFillerPrefix(part) {
			continue
		}
		part = patterns.Whitespace.ReplaceAllString(part, " ")
		names = append(names, part)
		if len(names) == patterns.MaxCounsel {
			break
		}
	}
	return names
}

func hasFillerPrefix(s string) bool {
	lower := strings.ToLower(s)
	for _, prefix := range patterns.CounselFillerPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Subject matter
// ─────────────────────────────────────────────────────────────────────────────

func extractTopics(lower string) (string, string) {
	for _, rule := range patterns.Topics {
		if strings.Contains(lower, rule.Keyword) {
			return rule.Topic, rule.Cause
		}
	}
	return "", ""
}

func extractIndustry(lower string) string {
	for _, rule := range patterns.Industries {
		if strings.Contains(lower, rule.Keyword) {
			return rule.Category
		}
	}
	return ""
}

func extractPosture(lower string) string {
	for _, rule := range patterns.Postures {
		if strings.Contains(lower, rule.Keyword) {
			return rule.Category
		}
	}
	return ""
}

// ─────────────────────────────────────────────────────────────────────────────
// Disposition & prevailing party
// ─────────────────────────────────────────────────────────────────────────────

// dispositionStatements are the fallback "judgment/order/decision is X"
// constructions, precompiled once per disposition keyword.
var dispositionStatements = func() []struct {
	Re       *regexp.Regexp
	Category string
} {
	stmts := make([]struct {
		Re       *regexp.Regexp
		Category string
	}, 0, len(patterns.Dispositions))
	for _, rule := range patterns.Dispositions {
		stmts = append(stmts, struct {
			Re       *regexp.Regexp
			Category string
		}{
			Re:       regexp.MustCompile(`(?:judgment|order|decision)\s+(?:is\s+)?` + rule.Keyword),
			Category: rule.Category,
		})
	}
	return stmts
}()

// extractDisposition scans the closing window first — dispositions live in
// closing paragraphs, and a mid-document disposition word usually describes
// a lower court's ruling, not the instant holding.  Only when the tail is
// silent does it fall back to an explicit "judgment is X" construction
// anywhere in the text.
func extractDisposition(lower string) string {
	tail := lower
	if len(tail) > patterns.DispositionTailWindow {
		tail = tail[len(tail)-patterns.DispositionTailWindow:]
	}
	for _, rule := range patterns.Dispositions {
		if strings.Contains(tail, rule.Keyword) {
			return rule.Category
		}
	}
	for _, stmt := range dispositionStatements {
		if stmt.Re.MatchString(lower) {
			return stmt.Category
		}
	}
	return ""
}

// extractPrevailingParty resolves the winner in priority order: explicit
// phrase in the closing window; inference from disposition plus whether the
// appellant appears in the opening (proxy for "plaintiff appealed"); and for
// a bare "Granted", the nature of the underlying motion — a granted motion
// to dismiss favors the defendant, while a granted summary judgment stays
// "Mixed" because keyword matching cannot attribute it.
func extractPrevailingParty(lower, disposition string) string {
	tail := lower
	if len(tail) > patterns.DispositionTailWindow {
		tail = tail[len(tail)-patterns.DispositionTailWindow:]
	}

	if strings.Contains(tail, "plaintiff prevails") || strings.Contains(tail, "judgment for plaintiff") {
		return string(caselaw.PrevailingPlaintiff)
	}
	if strings.Contains(tail, "defendant prevails") || strings.Contains(tail, "judgment for defendant") {
		return string(caselaw.PrevailingDefendant)
	}

	if disposition == "" {
		return ""
	}

	head := lower
	if len(head) > patterns.AppellantHeadWindow {
		head = head[:patterns.AppellantHeadWindow]
	}
	if strings.Contains(head, "appellant") {
		switch disposition {
		case "Reversed", "Vacated", "Reversed in Part":
			return string(caselaw.PrevailingPlaintiff)
		case "Affirmed", "Dismissed":
			return string(caselaw.PrevailingDefendant)
		}
	}
	if disposition == "Granted" {
		if strings.Contains(lower, "motion to dismiss") {
			return string(caselaw.PrevailingDefendant)
		}
		if strings.Contains(lower, "summary judgment") {
			return string(caselaw.PrevailingMixed)
		}
	}
	return ""
}

// ─────────────────────────────────────────────────────────────────────────────
// Damages
// ─────────────────────────────────────────────────────────────────────────────

// extractDamages keeps the maximum scaled amount across all monetary
// mentions.  Scale (million/billion) is read from a character window around
// the first occurrence of the literal amount string — repeated identical
// amounts all resolve scale from the first occurrence's context, a known
// imprecision of the heuristic.
func extractDamages(text string) *float64 {
	var maxAmount *float64
	for _, m := range patterns.Money.FindAllStringSubmatch(text, -1) {
		amountStr := m[1]
		if amountStr == "" {
			amountStr = m[2]
		}
		if amountStr == "" {
			continue
		}
		amount, err := strconv.ParseFloat(strings.ReplaceAll(amountStr, ",", ""), 64)
		if err != nil {
			continue
		}

		idx := strings.Index(text, amountStr)
		start := idx - patterns.MoneyContextWindow
		if start < 0 {
			start = 0
		}
		end := idx + patterns.MoneyContextWindow
		if end > len(text) {
			end = len(text)
		}
		window := strings.ToLower(text[start:end])
		if strings.Contains(window, "billion") {
			amount *= 1_000_000_000
		} else if strings.Contains(window, "million") {
			amount *= 1_000_000
		}

		if maxAmount == nil || amount > *maxAmount {
			v := amount
			maxAmount = &v
		}
	}
	return maxAmount
}

// ─────────────────────────────────────────────────────────────────────────────
// Evidence
// ─────────────────────────────────────────────────────────────────────────────

// extractEvidenceTypes is a pure membership test over the evidence taxonomy:
// every matching category is kept, deduplicated, and sorted for
// deterministic output.
func extractEvidenceTypes(lower string) []string {
	found := make(map[string]struct{})
	for _, rule := range patterns.Evidence {
		if strings.Contains(lower, rule.Keyword) {
			found[rule.Category] = struct{}{}
		}
	}
	types := make([]string, 0, len(found))
	for t := range found {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// countResolved reports how many fields of the record carry a value, for
// telemetry only.
func countResolved(m *caselaw.CaseMetadata) int {
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
	if len(m.Judges) > 0 {
		n++
	}
	if len(m.Plaintiffs) > 0 {
		n++
	}
	if len(m.Defendants) > 0 {
		n++
	}
	if len(m.CounselPlaintiff) > 0 {
		n++
	}
	if len(m.CounselDefense) > 0 {
		n++
	}
	if m.MonetaryDamages != nil {
		n++
	}
	if len(m.EvidenceTypes) > 0 {
		n++
	}
	return n
}
