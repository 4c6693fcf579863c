package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCards() []Card {
	return []Card{
		{ID: "persona-1", Type: TypePersona, Title: "Mayor"},
		{ID: "problem-1", Type: TypeProblem, Title: "Ageing", Score: IntPtr(-80)},
		{ID: "partner-1", Type: TypePartner, Title: "Lab", Score: IntPtr(35)},
		{ID: "persona-2", Type: TypePersona, Title: "NPO"},
		{ID: "job-1", Type: TypeJob, Title: "Bus", Score: IntPtr(50)},
		{ID: "partner-2", Type: TypePartner, Title: "Corps"},
	}
}

func TestByTypePreservesOrder(t *testing.T) {
	got := ByType(sampleCards(), TypePersona)
	require.Len(t, got, 2)
	assert.Equal(t, "persona-1", got[0].ID)
	assert.Equal(t, "persona-2", got[1].ID)

	assert.Empty(t, ByType(sampleCards(), Type("bogus")))
	assert.Len(t, ByType(sampleCards(), TypePartner), 2)
}

func TestPointsAndSeverity(t *testing.T) {
	tests := []struct {
		name         string
		card         Card
		wantPoints   int
		wantSeverity int
	}{
		{"no score", Card{}, 0, 0},
		{"negative problem", Card{Score: IntPtr(-80)}, -80, 80},
		{"positive solution", Card{Score: IntPtr(45)}, 45, 45},
		{"zero", Card{Score: IntPtr(0)}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantPoints, tt.card.Points())
			assert.Equal(t, tt.wantSeverity, tt.card.Severity())
		})
	}
}

func TestTypeValid(t *testing.T) {
	for _, ty := range []Type{TypePersona, TypeProblem, TypePartner, TypeJob} {
		assert.True(t, ty.Valid(), ty)
	}
	assert.False(t, Type("wizard").Valid())
	assert.False(t, Type("").Valid())
}

func TestCatalogLookup(t *testing.T) {
	cat := NewCatalog(sampleCards())
	assert.Equal(t, 6, cat.Len())

	c, ok := cat.Lookup("job-1")
	require.True(t, ok)
	assert.Equal(t, "Bus", c.Title)

	_, ok = cat.Lookup("job-9")
	assert.False(t, ok)
}

func TestCatalogDuplicateKeepsFirst(t *testing.T) {
	cards := append(sampleCards(), Card{ID: "persona-1", Type: TypePersona, Title: "Shadow"})
	cat := NewCatalog(cards)
	c, ok := cat.Lookup("persona-1")
	require.True(t, ok)
	assert.Equal(t, "Mayor", c.Title)
}

func TestCatalogCardsIsACopy(t *testing.T) {
	cat := NewCatalog(sampleCards())
	cards := cat.Cards()
	cards[0].Title = "changed"
	c, _ := cat.Lookup("persona-1")
	assert.Equal(t, "Mayor", c.Title)
}

func TestSuggest(t *testing.T) {
	cat := NewCatalog([]Card{
		{ID: "persona-muni-001", Type: TypePersona},
		{ID: "persona-muni-002", Type: TypePersona},
		{ID: "job-muni-004", Type: TypeJob},
	})

	assert.Equal(t, "persona-muni-001", cat.Suggest("persona-muni-01"))
	assert.Equal(t, "job-muni-004", cat.Suggest("JOB-MUNI-004 "))
	assert.Equal(t, "", cat.Suggest("something-else-entirely"))
	assert.Equal(t, "", cat.Suggest(""))
}
