package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_SortedAndNonEmpty(t *testing.T) {
	all, err := All()
	require.NoError(t, err)
	require.NotEmpty(t, all)

	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Version, all[i].Version)
	}
	for _, m := range all {
		assert.NotEmpty(t, strings.TrimSpace(m.SQL), m.Version)
	}
}

func TestAll_InterviewResponsesAreUniquePerQuestion(t *testing.T) {
	all, err := All()
	require.NoError(t, err)

	var found bool
	for _, m := range all {
		if strings.Contains(m.SQL, "UNIQUE (interview_id, question_number)") {
			found = true
		}
	}
	assert.True(t, found)
}
