package questionbank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBank(t *testing.T) {
	b, err := Load("")
	require.NoError(t, err)

	qs, err := b.For("", "Engenheiro Agrônomo", "Fazenda Santa Rita")
	require.NoError(t, err)
	require.Len(t, qs, 5)
	assert.Equal(t, 1, qs[0].Number)
	assert.Equal(t, "Fale sobre sua experiência e motivação para trabalhar como Engenheiro Agrônomo na Fazenda Santa Rita.", qs[0].Text)
	assert.Equal(t, "comportamental", qs[3].Type)
}

func TestAreaOverride(t *testing.T) {
	b, err := Load("")
	require.NoError(t, err)

	qs, err := b.For("Agronomia", "Agrônomo", "Coop")
	require.NoError(t, err)
	assert.Contains(t, qs[1].Text, "pragas resistentes")
}

func TestParseRejectsEmptyBank(t *testing.T) {
	_, err := Parse([]byte("areas: {}"))
	assert.Error(t, err)
}
