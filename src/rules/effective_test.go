package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onana1992/corebank-backoffice/src/models"
)

func window(from string, to *string, active bool) models.EffectiveWindow {
	return models.EffectiveWindow{EffectiveFrom: from, EffectiveTo: to, IsActive: active}
}

func str(s string) *string { return &s }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsCurrentlyEffective_Bounds(t *testing.T) {
	w := window("2026-01-01", str("2026-06-30"), true)

	assert.False(t, IsCurrentlyEffective(w, day(2025, 12, 31)))
	assert.True(t, IsCurrentlyEffective(w, day(2026, 1, 1)), "from is inclusive")
	assert.True(t, IsCurrentlyEffective(w, day(2026, 3, 15)))
	assert.True(t, IsCurrentlyEffective(w, day(2026, 6, 30)), "to is inclusive")
	assert.False(t, IsCurrentlyEffective(w, day(2026, 7, 1)))
}

func TestIsCurrentlyEffective_InactiveNever(t *testing.T) {
	w := window("2026-01-01", nil, false)
	assert.False(t, IsCurrentlyEffective(w, day(2026, 3, 15)))
}

func TestIsCurrentlyEffective_OpenEndedMonotonic(t *testing.T) {
	// Active + nil effectiveTo: effective for every asOf >= effectiveFrom.
	w := window("2026-01-01", nil, true)
	for _, asOf := range []time.Time{
		day(2026, 1, 1), day(2026, 6, 1), day(2030, 12, 31), day(2099, 1, 1),
	} {
		assert.True(t, IsCurrentlyEffective(w, asOf), asOf.Format(DateLayout))
	}
	assert.False(t, IsCurrentlyEffective(w, day(2025, 12, 31)))
}

func TestOverlaps(t *testing.T) {
	a := window("2026-01-01", str("2026-03-31"), true)
	b := window("2026-03-31", str("2026-06-30"), true)
	c := window("2026-04-01", str("2026-06-30"), true)
	open := window("2026-05-01", nil, true)

	assert.True(t, Overlaps(a, b), "shared boundary day intersects")
	assert.True(t, Overlaps(b, a))
	assert.False(t, Overlaps(a, c))
	assert.False(t, Overlaps(a, open), "open window starts after a ends")
	assert.True(t, Overlaps(c, open), "nil effectiveTo is +infinity")
	assert.True(t, Overlaps(open, open))
}

func TestCurrentlyEffectiveAndOpenCount(t *testing.T) {
	rows := []models.ProductInterestRate{
		{ID: "r1", EffectiveWindow: window("2026-01-01", nil, true)},
		{ID: "r2", EffectiveWindow: window("2026-01-01", str("2026-02-01"), true)},
		{ID: "r3", EffectiveWindow: window("2026-01-01", nil, false)},
	}
	asOf := day(2026, 9, 1)

	current := CurrentlyEffective(rows, asOf)
	require.Len(t, current, 1)
	assert.Equal(t, "r1", current[0].ID)
	assert.Equal(t, 1, OpenCount(rows, asOf))
}

func TestCountOverlaps_IgnoresInactive(t *testing.T) {
	rows := []models.ProductFee{
		{ID: "f1", EffectiveWindow: window("2026-01-01", nil, true)},
		{ID: "f2", EffectiveWindow: window("2026-06-01", nil, true)},
		{ID: "f3", EffectiveWindow: window("2026-06-01", nil, false)},
	}
	assert.Equal(t, 1, CountOverlaps(rows))
}

func TestEffectiveWinner_LatestFromWins(t *testing.T) {
	rows := []models.ProductInterestRate{
		{ID: "old", EffectiveWindow: window("2025-01-01", nil, true)},
		{ID: "new", EffectiveWindow: window("2026-01-01", nil, true)},
		{ID: "future", EffectiveWindow: window("2027-01-01", nil, true)},
	}
	winner, ok := EffectiveWinner(rows, day(2026, 9, 1))
	require.True(t, ok)
	assert.Equal(t, "new", winner.ID)

	_, ok = EffectiveWinner(rows[:0], day(2026, 9, 1))
	assert.False(t, ok)
}

func TestCheckWindow(t *testing.T) {
	require.NoError(t, CheckWindow(window("2026-01-01", nil, true)))
	require.NoError(t, CheckWindow(window("2026-01-01", str("2026-01-01"), true)))

	assert.ErrorIs(t, CheckWindow(window("", nil, true)), ErrValidation)
	assert.ErrorIs(t, CheckWindow(window("01/02/2026", nil, true)), ErrValidation)
	assert.ErrorIs(t, CheckWindow(window("2026-01-01", str("nope"), true)), ErrValidation)
	assert.ErrorIs(t, CheckWindow(window("2026-02-01", str("2026-01-01"), true)), ErrValidation)
}
