// Package console drives the product configuration screens: one state
// machine per configuration tab, a single open form at a time, per-tab
// in-flight serialization, and the validate -> submit -> refetch pipeline.
//
// A Session mirrors a single-threaded UI event loop and is not safe for
// concurrent use.
package console

import (
	"context"
	"errors"
	"fmt"
)

// Kind names a configuration tab.
type Kind string

const (
	KindRates       Kind = "rates"
	KindFees        Kind = "fees"
	KindLimits      Kind = "limits"
	KindPeriods     Kind = "periods"
	KindPenalties   Kind = "penalties"
	KindEligibility Kind = "eligibility-rules"
	KindMappings    Kind = "gl-mappings"
)

// Kinds lists every tab in display order.
var Kinds = []Kind{
	KindRates, KindFees, KindLimits, KindPeriods,
	KindPenalties, KindEligibility, KindMappings,
}

// Mode is a tab's form state.
type Mode int

const (
	Viewing Mode = iota
	Adding
	Editing
)

func (m Mode) String() string {
	switch m {
	case Adding:
		return "adding"
	case Editing:
		return "editing"
	default:
		return "viewing"
	}
}

// Form is the single open form. At most one exists per session; opening a
// form anywhere closes whatever was open before.
type Form struct {
	Kind  Kind
	Mode  Mode
	RowID string // set only when Mode == Editing
}

// Row is any configuration row the console can list and edit.
type Row interface {
	RowID() string
}

// Client is the network boundary the session submits through. The real
// implementation wraps the product configuration service; tests use fakes.
type Client interface {
	List(ctx context.Context, kind Kind) ([]Row, error)
	Create(ctx context.Context, kind Kind, payload any) error
	Update(ctx context.Context, kind Kind, rowID string, payload any) error
	Delete(ctx context.Context, kind Kind, rowID string) error
}

var (
	ErrBusy            = errors.New("a submission for this tab is still in flight")
	ErrNoOpenForm      = errors.New("no form is open")
	ErrConfirmRequired = errors.New("delete requires confirmation")
	ErrUnknownRow      = errors.New("row not found in the loaded list")
)

// Session holds the UI state for one product's configuration screens.
type Session struct {
	client Client

	form   *Form
	busy   map[Kind]bool
	errs   map[Kind]string
	loaded map[Kind]Ref[[]Row]
}

func NewSession(client Client) *Session {
	return &Session{
		client: client,
		busy:   make(map[Kind]bool),
		errs:   make(map[Kind]string),
		loaded: make(map[Kind]Ref[[]Row]),
	}
}

// Mode returns the tab's current form state.
func (s *Session) Mode(kind Kind) Mode {
	if s.form != nil && s.form.Kind == kind {
		return s.form.Mode
	}
	return Viewing
}

// Form returns a copy of the open form, if any.
func (s *Session) Form() (Form, bool) {
	if s.form == nil {
		return Form{}, false
	}
	return *s.form, true
}

// FormError returns the inline error last recorded for the tab.
func (s *Session) FormError(kind Kind) string {
	return s.errs[kind]
}

// Rows returns the tab's row list with its load state, so display code can
// distinguish "not loaded yet" from "loaded and empty".
func (s *Session) Rows(kind Kind) Ref[[]Row] {
	return s.loaded[kind]
}

// OpenAdd opens a blank form on the tab. Any other open form (including an
// edit on the same tab) closes; forms never stack.
func (s *Session) OpenAdd(kind Kind) error {
	if s.busy[kind] {
		return ErrBusy
	}
	s.form = &Form{Kind: kind, Mode: Adding}
	delete(s.errs, kind)
	return nil
}

// OpenEdit opens the form pre-filled with the given row. The row must be
// present in the loaded list; editing a row the table does not show is a
// programming error.
func (s *Session) OpenEdit(kind Kind, rowID string) error {
	if s.busy[kind] {
		return ErrBusy
	}
	rows, ok := s.loaded[kind].Get()
	if !ok {
		return fmt.Errorf("%w: %s list is not loaded", ErrUnknownRow, kind)
	}
	found := false
	for _, r := range rows {
		if r.RowID() == rowID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownRow, rowID)
	}
	s.form = &Form{Kind: kind, Mode: Editing, RowID: rowID}
	delete(s.errs, kind)
	return nil
}

// Cancel closes the open form without submitting.
func (s *Session) Cancel() {
	s.form = nil
}

// Refresh loads the tab's rows. Loads are serialized: a refresh while one
// is already running is a no-op. A failed load degrades to an empty list
// with the error recorded, rather than blocking the page.
func (s *Session) Refresh(ctx context.Context, kind Kind) error {
	if s.loaded[kind].State() == Loading {
		return nil
	}
	s.loaded[kind] = LoadingRef[[]Row]()
	rows, err := s.client.List(ctx, kind)
	if err != nil {
		s.loaded[kind] = LoadedRef([]Row{})
		s.errs[kind] = err.Error()
		return err
	}
	s.loaded[kind] = LoadedRef(rows)
	return nil
}

// Submit sends the open form's payload: create for Adding, update for
// Editing. On success the form closes and the tab refetches (no optimistic
// merge). On failure the error is recorded inline and the form stays open
// with its values intact.
func (s *Session) Submit(ctx context.Context, payload any) error {
	if s.form == nil {
		return ErrNoOpenForm
	}
	kind := s.form.Kind
	if s.busy[kind] {
		return ErrBusy
	}
	s.busy[kind] = true
	defer func() { s.busy[kind] = false }()

	var err error
	switch s.form.Mode {
	case Adding:
		err = s.client.Create(ctx, kind, payload)
	case Editing:
		err = s.client.Update(ctx, kind, s.form.RowID, payload)
	default:
		return ErrNoOpenForm
	}
	if err != nil {
		s.errs[kind] = err.Error()
		return err
	}

	s.form = nil
	delete(s.errs, kind)
	return s.Refresh(ctx, kind)
}

// DeleteRow deletes after an explicit confirmation. On success the tab
// refetches; on failure the error is recorded and nothing else changes.
func (s *Session) DeleteRow(ctx context.Context, kind Kind, rowID string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmRequired
	}
	if s.busy[kind] {
		return ErrBusy
	}
	s.busy[kind] = true
	defer func() { s.busy[kind] = false }()

	if err := s.client.Delete(ctx, kind, rowID); err != nil {
		s.errs[kind] = err.Error()
		return err
	}
	delete(s.errs, kind)
	return s.Refresh(ctx, kind)
}
