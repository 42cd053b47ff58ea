package wizard_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-wizard/internal/domain"
	"github.com/pkordes/trip-wizard/internal/wizard"
)

func TestLoadProfiles_BuiltIn(t *testing.T) {
	ps, err := wizard.LoadProfiles("")
	require.NoError(t, err)

	assert.Equal(t, []string{"classic", "express", "standard"}, ps.Names())

	std, err := ps.Get("")
	require.NoError(t, err)
	assert.Equal(t, "standard", std.Name)
	assert.Equal(t, wizard.StandardSteps, std.Steps)
	assert.Zero(t, std.InterestLimit, "standard flow leaves interests uncapped")
	assert.Contains(t, std.Options.CabinClasses, "premium_economy")

	classic, err := ps.Get("classic")
	require.NoError(t, err)
	assert.Equal(t, 5, classic.InterestLimit)

	express, err := ps.Get("express")
	require.NoError(t, err)
	assert.Equal(t, 4, express.StepCount())
	assert.Equal(t, wizard.GateDestinations, express.GateFor(1))
}

func TestProfiles_GetUnknown(t *testing.T) {
	ps, err := wizard.LoadProfiles("")
	require.NoError(t, err)

	_, err = ps.Get("deluxe")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseProfiles_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown gate":    "profiles:\n  x:\n    steps: [customer, teleport]\n",
		"duplicate gate":  "profiles:\n  x:\n    steps: [dates, dates]\n",
		"no steps":        "profiles:\n  x:\n    interest_limit: 2\n",
		"too many dests":  "profiles:\n  x:\n    steps: [dates]\n    destination_limit: 9\n",
		"no profiles":     "options: {}\n",
		"malformed yaml":  "profiles: [",
		"negative limits": "profiles:\n  x:\n    steps: [dates]\n    interest_limit: -1\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := wizard.ParseProfiles([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadProfiles_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	doc := "profiles:\n  mini:\n    steps: [destinations, preferences]\n    interest_limit: 1\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	ps, err := wizard.LoadProfiles(path)
	require.NoError(t, err)

	mini, err := ps.Get("mini")
	require.NoError(t, err)
	assert.Equal(t, 2, mini.StepCount())
	assert.Equal(t, 1, mini.InterestLimit)
}

func TestProfile_FirstBlocked(t *testing.T) {
	ps, err := wizard.LoadProfiles("")
	require.NoError(t, err)
	std, _ := ps.Get("standard")

	d := completeDraft(t)
	assert.Zero(t, std.FirstBlocked(d))

	d.Budget = 0
	assert.Equal(t, 5, std.FirstBlocked(d))

	d.PassportCountries = nil
	assert.Equal(t, 2, std.FirstBlocked(d))
}

func TestAllows(t *testing.T) {
	assert.True(t, wizard.Allows(nil, "anything"))
	assert.True(t, wizard.Allows([]string{"a", "b"}, "b"))
	assert.False(t, wizard.Allows([]string{"a", "b"}, "c"))
}
