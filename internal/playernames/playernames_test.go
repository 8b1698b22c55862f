package playernames

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatWithDisambiguationTwoKoivus(t *testing.T) {
	players := []Player{
		{ID: 1, FirstName: "Mikko", LastName: "Koivu"},
		{ID: 2, FirstName: "Saku", LastName: "Koivu"},
	}
	names := FormatWithDisambiguation(players)
	assert.Equal(t, "Koivu M.", names[1])
	assert.Equal(t, "Koivu S.", names[2])
}

func TestFormatWithDisambiguationUniqueLastNameIsBare(t *testing.T) {
	players := []Player{
		{ID: 3, FirstName: "Teemu", LastName: "Selanne"},
	}
	names := FormatWithDisambiguation(players)
	assert.Equal(t, "Selanne", names[3])
}

func TestFormatWithDisambiguationEmptyLastNameFallsBackToPlayerID(t *testing.T) {
	players := []Player{{ID: 42, FirstName: "X", LastName: ""}}
	names := FormatWithDisambiguation(players)
	assert.Equal(t, "Player42", names[42])
}

func TestFormatWithDisambiguationEmptyFirstNameFallsBackToLastName(t *testing.T) {
	players := []Player{
		{ID: 1, FirstName: "", LastName: "Koivu"},
		{ID: 2, FirstName: "Saku", LastName: "Koivu"},
	}
	names := FormatWithDisambiguation(players)
	assert.Equal(t, "Koivu", names[1])
	assert.Equal(t, "Koivu S.", names[2])
}

func TestCrossTeamSameLastNameDoesNotCollide(t *testing.T) {
	home := FormatWithDisambiguation([]Player{{ID: 1, FirstName: "Mikko", LastName: "Koivu"}})
	away := FormatWithDisambiguation([]Player{{ID: 2, FirstName: "Antti", LastName: "Koivu"}})
	assert.Equal(t, "Koivu", home[1])
	assert.Equal(t, "Koivu", away[2])
}

func TestFallbackName(t *testing.T) {
	assert.Equal(t, "Pelaaja 999", FallbackName(999))
}
