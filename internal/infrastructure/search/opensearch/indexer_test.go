package opensearch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jurimetric/lexmeta/pkg/types/caselaw"
)

func TestNewCaseDocument(t *testing.T) {
	damages := 15000000.0
	meta := caselaw.NewCaseMetadata()
	meta.CaseName = "Apple Inc. v. Qualcomm Inc."
	meta.Citation = "994 F.3d 1086"
	meta.DateFiled = "2021-03-03"
	meta.CourtName = "U.S. Court of Appeals for the Ninth Circuit"
	meta.JurisdictionLevel = string(caselaw.JurisdictionFederal)
	meta.Judges = []string{"MILAN D. SMITH"}
	meta.PrimaryTopic = "Antitrust"
	meta.MonetaryDamages = &damages

	doc := NewCaseDocument("case-1", meta)
	assert.Equal(t, "case-1", doc.CaseID)
	assert.Equal(t, "Apple Inc. v. Qualcomm Inc.", doc.CaseName)
	assert.Equal(t, "994 F.3d 1086", doc.Citation)
	assert.Equal(t, []string{"MILAN D. SMITH"}, doc.Judges)
	require.NotNil(t, doc.MonetaryDamages)
	assert.Equal(t, 15000000.0, *doc.MonetaryDamages)
	assert.False(t, doc.IndexedAt.IsZero())
}

func TestCaseDocumentOmitsEmptyFields(t *testing.T) {
	doc := NewCaseDocument("case-2", caselaw.NewCaseMetadata())

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "case_id")
	assert.NotContains(t, raw, "citation")
	assert.NotContains(t, raw, "monetary_damages")
	assert.NotContains(t, raw, "judges")
}

func TestIndexerDerivesIndexName(t *testing.T) {
	i := NewIndexer(nil, "lexmeta", nil)
	assert.Equal(t, "lexmeta-cases", i.IndexName())

	assert.Equal(t, "lexmeta-cases", NewIndexer(nil, "", nil).IndexName())
	assert.Equal(t, "staging-cases", NewIndexer(nil, "staging", nil).IndexName())
}

func TestCaseMappingIsValidJSON(t *testing.T) {
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(caseMapping), &m))

	mappings := m["mappings"].(map[string]interface{})
	props := mappings["properties"].(map[string]interface{})
	assert.Contains(t, props, "citation")
	assert.Contains(t, props, "topic")
	assert.Contains(t, props, "prevailing_party")
}
