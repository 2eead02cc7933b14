package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/job-assistant/internal/catalog"
	"github.com/spigell/job-assistant/internal/recommend"
)

func newTestSession(postings *catalog.Postings, out *bytes.Buffer) *session {
	s := &session{
		logger:   zap.NewNop(),
		config:   &Config{},
		text:     "Python developer with SQL and Docker",
		postings: postings,
		out:      out,
	}
	s.refresh()
	return s
}

func TestPrintJSONWithoutPostings(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(&catalog.Postings{}, &out)

	require.NoError(t, s.printJSON())

	var got recommend.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, recommend.NoMatchesMessage, got.Message)
	assert.Empty(t, got.Recommendations)
	assert.Contains(t, out.String(), `"recommendations": []`)
}

func TestAppendToMissingExcludeFile(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(&catalog.Postings{Items: []*catalog.Posting{
		{ID: "j1", Title: "Data Engineer", Company: "Acme", Keywords: []string{"python", "sql"}},
		{ID: "j2", Title: "Frontend", Company: "Globex", Keywords: []string{"react"}},
	}}, &out)
	s.excludeFile = filepath.Join(t.TempDir(), "excluded.json")
	require.Len(t, s.result.Recommendations, 1)

	require.NoError(t, s.appendToExcludeFile())

	excluded, err := catalog.LoadExcluded(s.excludeFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"j1"}, excluded.IDs())
	assert.Empty(t, s.result.Recommendations)
	assert.Equal(t, recommend.NoMatchesMessage, s.result.Message)
}
