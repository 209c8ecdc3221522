package rules

import (
	"fmt"
	"time"

	"github.com/onana1992/corebank-backoffice/src/models"
)

// DateLayout is the wire format for configuration dates.
const DateLayout = "2006-01-02"

// EffectiveRow is satisfied by every configuration row carrying an
// effective window (via the embedded models.EffectiveWindow).
type EffectiveRow interface {
	Window() models.EffectiveWindow
}

// ParseDate parses a YYYY-MM-DD wire date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// CheckWindow validates an effective window at write time: effectiveFrom is
// required and parseable, effectiveTo (when present) is parseable and not
// before effectiveFrom.
func CheckWindow(w models.EffectiveWindow) error {
	if w.EffectiveFrom == "" {
		return fmt.Errorf("%w: effectiveFrom is required", ErrValidation)
	}
	from, err := ParseDate(w.EffectiveFrom)
	if err != nil {
		return fmt.Errorf("%w: effectiveFrom %q is not a valid date", ErrValidation, w.EffectiveFrom)
	}
	if w.EffectiveTo != nil {
		to, err := ParseDate(*w.EffectiveTo)
		if err != nil {
			return fmt.Errorf("%w: effectiveTo %q is not a valid date", ErrValidation, *w.EffectiveTo)
		}
		if to.Before(from) {
			return fmt.Errorf("%w: effectiveTo %s is before effectiveFrom %s", ErrValidation, *w.EffectiveTo, w.EffectiveFrom)
		}
	}
	return nil
}

// IsCurrentlyEffective reports whether the window applies at asOf: the row
// is active and effectiveFrom <= asOf <= effectiveTo, a nil effectiveTo
// meaning open-ended. Rows with unparseable dates are never effective
// (CheckWindow keeps them out of storage).
func IsCurrentlyEffective(w models.EffectiveWindow, asOf time.Time) bool {
	if !w.IsActive {
		return false
	}
	from, err := ParseDate(w.EffectiveFrom)
	if err != nil {
		return false
	}
	day := asOf.Truncate(24 * time.Hour)
	if day.Before(from) {
		return false
	}
	if w.EffectiveTo != nil {
		to, err := ParseDate(*w.EffectiveTo)
		if err != nil {
			return false
		}
		if day.After(to) {
			return false
		}
	}
	return true
}

// Overlaps reports whether two windows intersect, treating a nil
// effectiveTo as +infinity. Activity flags are ignored; this is a pure
// interval test.
func Overlaps(a, b models.EffectiveWindow) bool {
	aFrom, errA := ParseDate(a.EffectiveFrom)
	bFrom, errB := ParseDate(b.EffectiveFrom)
	if errA != nil || errB != nil {
		return false
	}
	// a starts after b ends, or b starts after a ends
	if b.EffectiveTo != nil {
		if bTo, err := ParseDate(*b.EffectiveTo); err == nil && aFrom.After(bTo) {
			return false
		}
	}
	if a.EffectiveTo != nil {
		if aTo, err := ParseDate(*a.EffectiveTo); err == nil && bFrom.After(aTo) {
			return false
		}
	}
	return true
}

// CurrentlyEffective filters rows down to those effective at asOf.
func CurrentlyEffective[T EffectiveRow](rows []T, asOf time.Time) []T {
	var out []T
	for _, r := range rows {
		if IsCurrentlyEffective(r.Window(), asOf) {
			out = append(out, r)
		}
	}
	return out
}

// OpenCount is the number of rows effective at asOf, the "open
// configuration count" statistic on the product overview.
func OpenCount[T EffectiveRow](rows []T, asOf time.Time) int {
	n := 0
	for _, r := range rows {
		if IsCurrentlyEffective(r.Window(), asOf) {
			n++
		}
	}
	return n
}

// CountOverlaps returns how many pairs of active rows have intersecting
// windows. Overlaps are reported, not rejected; precedence for display is
// the caller's concern.
func CountOverlaps[T EffectiveRow](rows []T) int {
	n := 0
	for i := 0; i < len(rows); i++ {
		for j := i + 1; j < len(rows); j++ {
			wi, wj := rows[i].Window(), rows[j].Window()
			if wi.IsActive && wj.IsActive && Overlaps(wi, wj) {
				n++
			}
		}
	}
	return n
}

// EffectiveWinner picks the single row to display when several are
// effective at once: the latest effectiveFrom wins, position breaking ties.
// Returns false when no row is effective at asOf.
func EffectiveWinner[T EffectiveRow](rows []T, asOf time.Time) (T, bool) {
	var winner T
	var winnerFrom time.Time
	found := false
	for _, r := range rows {
		w := r.Window()
		if !IsCurrentlyEffective(w, asOf) {
			continue
		}
		from, err := ParseDate(w.EffectiveFrom)
		if err != nil {
			continue
		}
		if !found || from.After(winnerFrom) {
			winner, winnerFrom, found = r, from, true
		}
	}
	return winner, found
}
