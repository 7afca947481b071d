package opensearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQueryDefaultsToMatchAll(t *testing.T) {
	body := buildQuery(CaseQuery{})

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)
	assert.Contains(t, must[0].(map[string]interface{}), "match_all")
	assert.NotContains(t, boolQuery, "filter")
	assert.Equal(t, 20, body["size"])
	assert.NotContains(t, body, "from")
}

func TestBuildQueryTextBecomesMatch(t *testing.T) {
	body := buildQuery(CaseQuery{Text: "Smith"})

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)
	match := must[0].(map[string]interface{})["match"].(map[string]interface{})
	assert.Equal(t, "Smith", match["case_name"])
}

func TestBuildQueryFilters(t *testing.T) {
	body := buildQuery(CaseQuery{
		Court:           "Supreme Court of the United States",
		Jurisdiction:    "Federal",
		Topic:           "antitrust",
		PrevailingParty: "Defendant",
	})

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	filter := boolQuery["filter"].([]interface{})
	assert.Len(t, filter, 4)
}

func TestBuildQueryPagination(t *testing.T) {
	body := buildQuery(CaseQuery{From: 40, Size: 10})
	assert.Equal(t, 10, body["size"])
	assert.Equal(t, 40, body["from"])
}

func TestBuildQueryClampsSize(t *testing.T) {
	assert.Equal(t, 100, buildQuery(CaseQuery{Size: 5000})["size"])
	assert.Equal(t, 20, buildQuery(CaseQuery{Size: -1})["size"])
}
