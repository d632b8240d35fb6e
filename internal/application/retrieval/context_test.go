package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildContextSingleMatch(t *testing.T) {
	out := BuildContext([]Match{
		{ID: "seg-1", Distance: 0.25, Text: "Acme builds robots."},
	})
	assert.Equal(t, "Relevant Context:\nID: seg-1\nDistance: 0.25\nContent:\nAcme builds robots.\n", out)
}

func TestBuildContextJoinsWithSeparator(t *testing.T) {
	out := BuildContext([]Match{
		{ID: "seg-1", Distance: 0.1, Text: "first"},
		{ID: "seg-2", Distance: 0.2, Text: "second"},
	})
	assert.Equal(t,
		"Relevant Context:\n"+
			"ID: seg-1\nDistance: 0.1\nContent:\nfirst\n"+
			"\n---\n"+
			"ID: seg-2\nDistance: 0.2\nContent:\nsecond\n",
		out)
}

func TestBuildContextEmptyMatches(t *testing.T) {
	assert.Equal(t, "Relevant Context:\n", BuildContext(nil))
}
