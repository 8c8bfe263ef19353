package domains

import (
	"testing"
	"time"

	"fedadmin/internal/domain"
	"fedadmin/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdaptersAreConsistent(t *testing.T) {
	require.NoError(t, Users().Validate())
	require.NoError(t, Courts().Validate())
	require.NoError(t, Tournaments().Validate())
	require.NoError(t, Microsites().Validate())
}

func TestFilterSchemas(t *testing.T) {
	assert.Equal(t, []string{"searchTerm", "status", "role", "federation"}, Users().Fields)
	assert.Equal(t, []string{"searchTerm", "status", "city", "surface"}, Courts().Fields)
	assert.Equal(t, []string{"searchTerm", "status", "category", "city"}, Tournaments().Fields)
	assert.Equal(t, []string{"searchTerm", "status", "template"}, Microsites().Fields)
}

func TestDestructiveActionsRequireReason(t *testing.T) {
	destructive := map[string]bool{"reject": true, "delete": true, "deactivate": true, "cancel": true, "suspend": true}
	check := func(actions []engine.ActionSpec) {
		for _, a := range actions {
			assert.Equal(t, destructive[a.ID], a.Destructive(), a.ID)
		}
	}
	check(Users().Actions)
	check(Courts().Actions)
	check(Tournaments().Actions)
	check(Microsites().Actions)

	suspend, ok := Users().ActionByKey("s")
	require.True(t, ok)
	assert.Equal(t, engine.PayloadSuspension, suspend.Payload)
}

func TestRecipientClasses(t *testing.T) {
	assert.Equal(t, []string{"owner", "recent visitors"}, Courts().RecipientClasses)
	assert.Contains(t, Tournaments().RecipientClasses, "confirmed participants")
}

func TestRowRendersEveryColumn(t *testing.T) {
	a := Tournaments()
	row := a.Row(domain.Tournament{
		ID: 3, Name: "Copa Primavera Sub-18 de Pádel Mixto", Category: "u18", City: "Córdoba",
		StartsAt: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC), Participants: 48, Status: "pending",
	})

	require.Len(t, row, len(a.Columns))
	assert.Equal(t, "3", row[0])
	assert.Equal(t, 26, len([]rune(row[1])))
	assert.Equal(t, "2026-04-01", row[4])
	assert.Contains(t, a.Describe(domain.Tournament{ID: 3, Organizer: "Club Norte"}), "Club Norte")
}

func TestOptions(t *testing.T) {
	opts := Courts().Options(25, nil, nil)
	assert.Equal(t, "courts", opts.Domain)
	assert.Equal(t, 25, opts.PageSize)
	assert.Len(t, opts.Actions, 5)
}

func TestLookup(t *testing.T) {
	info, err := Lookup(" Microsites ")
	require.NoError(t, err)
	assert.Equal(t, "microsites", info.Resource)

	_, err = Lookup("clubs")
	assert.Error(t, err)
	assert.Equal(t, 2, IndexOf("tournaments"))
	assert.Equal(t, -1, IndexOf("clubs"))
}
