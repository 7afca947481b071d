// Package caselaw defines the public output contract of the LexMeta
// extraction pipeline: the CaseMetadata record and its component types.
// These are plain serializable data types with no behavior beyond JSON
// helpers; all population logic lives in internal/extraction.
package caselaw

import "encoding/json"

// PartyType classifies a litigant by the surface form of its name.
type PartyType string

const (
	PartyIndividual  PartyType = "Individual"
	PartyCorporation PartyType = "Corporation"
	PartyGovernment  PartyType = "Government"
)

// Jurisdiction is the level of the court that issued the opinion.
type Jurisdiction string

const (
	JurisdictionFederal Jurisdiction = "Federal"
	JurisdictionState   Jurisdiction = "State"
)

// PrevailingParty identifies which litigant benefits from the disposition.
// PrevailingMixed is a deliberate "ambiguous" outcome: a granted summary
// judgment cannot be attributed to either side by keyword matching alone,
// and the escape hatch is part of the contract rather than a guess.
type PrevailingParty string

const (
	PrevailingPlaintiff PrevailingParty = "Plaintiff"
	PrevailingDefendant PrevailingParty = "Defendant"
	PrevailingMixed     PrevailingParty = "Mixed"
)

// Party is a single litigant.  Parties are derived from the case caption,
// never persisted independently.
type Party struct {
	Name string    `json:"name"`
	Type PartyType `json:"type"`
}

// CaseMetadata is the full output record of one extraction call.  Every
// field is optional: scalar fields are nil when unresolved, sequence fields
// are empty (never nil, so they serialize as [] rather than null).
type CaseMetadata struct {
	// Case identity.
	CaseName          string  `json:"case_name"`
	Citation          string  `json:"citation"`
	DateFiled         string  `json:"date_filed"` // ISO 8601 YYYY-MM-DD
	CourtName         string  `json:"court_name"`
	JurisdictionLevel string  `json:"jurisdiction_level"`

	// Actors.
	Judges           []string `json:"judges"`
	Plaintiffs       []Party  `json:"plaintiffs"`
	Defendants       []Party  `json:"defendants"`
	CounselPlaintiff []string `json:"counsel_plaintiff"`
	CounselDefense   []string `json:"counsel_defense"`

	// Subject matter.
	PrimaryTopic          string `json:"primary_topic"`
	SpecificCauseOfAction string `json:"specific_cause_of_action"`
	IndustrySector        string `json:"industry_sector"`

	// Outcome and procedure.
	ProceduralPosture string   `json:"procedural_posture"`
	Disposition       string   `json:"disposition"`
	PrevailingParty   string   `json:"prevailing_party"`
	MonetaryDamages   *float64 `json:"monetary_damages"`

	// Evidence.
	EvidenceTypes []string `json:"evidence_types"`
}

// NewCaseMetadata returns an empty record with all sequence fields
// initialized so that unset sequences serialize as [] and unset scalars as
// null, matching the reference JSON shape.
func NewCaseMetadata() *CaseMetadata {
	return &CaseMetadata{
		Judges:           []string{},
		Plaintiffs:       []Party{},
		Defendants:       []Party{},
		CounselPlaintiff: []string{},
		CounselDefense:   []string{},
		EvidenceTypes:    []string{},
	}
}

// jsonCaseMetadata mirrors CaseMetadata with pointer scalars so that empty
// strings marshal as explicit nulls.
type jsonCaseMetadata struct {
	CaseName              *string  `json:"case_name"`
	Citation              *string  `json:"citation"`
	DateFiled             *string  `json:"date_filed"`
	CourtName             *string  `json:"court_name"`
	JurisdictionLevel     *string  `json:"jurisdiction_level"`
	Judges                []string `json:"judges"`
	Plaintiffs            []Party  `json:"plaintiffs"`
	Defendants            []Party  `json:"defendants"`
	CounselPlaintiff      []string `json:"counsel_plaintiff"`
	CounselDefense        []string `json:"counsel_defense"`
	PrimaryTopic          *string  `json:"primary_topic"`
	SpecificCauseOfAction *string  `json:"specific_cause_of_action"`
	IndustrySector        *string  `json:"industry_sector"`
	ProceduralPosture     *string  `json:"procedural_posture"`
	Disposition           *string  `json:"disposition"`
	PrevailingParty       *string  `json:"prevailing_party"`
	MonetaryDamages       *float64 `json:"monetary_damages"`
	EvidenceTypes         []string `json:"evidence_types"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromOptional(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// MarshalJSON serializes the record with snake_case field names, explicit
// nulls for unresolved scalar fields, and [] for empty sequences.
func (m *CaseMetadata) MarshalJSON() ([]byte, error) {
	out := jsonCaseMetadata{
		CaseName:              optional(m.CaseName),
		Citation:              optional(m.Citation),
		DateFiled:             optional(m.DateFiled),
		CourtName:             optional(m.CourtName),
		JurisdictionLevel:     optional(m.JurisdictionLevel),
		Judges:                emptyIfNil(m.Judges),
		Plaintiffs:            emptyPartiesIfNil(m.Plaintiffs),
		Defendants:            emptyPartiesIfNil(m.Defendants),
		CounselPlaintiff:      emptyIfNil(m.CounselPlaintiff),
		CounselDefense:        emptyIfNil(m.CounselDefense),
		PrimaryTopic:          optional(m.PrimaryTopic),
		SpecificCauseOfAction: optional(m.SpecificCauseOfAction),
		IndustrySector:        optional(m.IndustrySector),
		ProceduralPosture:     optional(m.ProceduralPosture),
		Disposition:           optional(m.Disposition),
		PrevailingParty:       optional(m.PrevailingParty),
		MonetaryDamages:       m.MonetaryDamages,
		EvidenceTypes:         emptyIfNil(m.EvidenceTypes),
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON: nulls become empty strings,
// null sequences become empty slices.
func (m *CaseMetadata) UnmarshalJSON(data []byte) error {
	var in jsonCaseMetadata
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.CaseName = fromOptional(in.CaseName)
	m.Citation = fromOptional(in.Citation)
	m.DateFiled = fromOptional(in.DateFiled)
	m.CourtName = fromOptional(in.CourtName)
	m.JurisdictionLevel = fromOptional(in.JurisdictionLevel)
	m.Judges = emptyIfNil(in.Judges)
	m.Plaintiffs = emptyPartiesIfNil(in.Plaintiffs)
	m.Defendants = emptyPartiesIfNil(in.Defendants)
	m.CounselPlaintiff = emptyIfNil(in.CounselPlaintiff)
	m.CounselDefense = emptyIfNil(in.CounselDefense)
	m.PrimaryTopic = fromOptional(in.PrimaryTopic)
	m.SpecificCauseOfAction = fromOptional(in.SpecificCauseOfAction)
	m.IndustrySector = fromOptional(in.IndustrySector)
	m.ProceduralPosture = fromOptional(in.ProceduralPosture)
	m.Disposition = fromOptional(in.Disposition)
	m.PrevailingParty = fromOptional(in.PrevailingParty)
	m.MonetaryDamages = in.MonetaryDamages
	m.EvidenceTypes = emptyIfNil(in.EvidenceTypes)
	return nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyPartiesIfNil(p []Party) []Party {
	if p == nil {
		return []Party{}
	}
	return p
}

// ToJSON renders the record as indented JSON, the shape consumed by the CLI
// and archived alongside raw opinions.
func (m *CaseMetadata) ToJSON() (string, error) {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
