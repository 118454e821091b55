// Package session holds the in-memory working state for one import and
// decouples edits from persistence: every mutation is applied synchronously
// to the working lists, while the resulting ledger writes are emitted as
// commands into a Sink. The sink may persist asynchronously and is allowed
// to fail without ever rolling back the in-memory state.
package session

import (
	"github.com/edubook/edubook/pkg/books"
)

// Command is one persistence action emitted by the session.
type Command interface {
	isCommand()
}

// LedgerUpsert records that a book's pricing should be remembered under its
// identity.
type LedgerUpsert struct {
	Identity string
	Entry    books.LedgerEntry
}

// SnapshotSave records that a full list should be snapshotted under the
// session's upload id.
type SnapshotSave struct {
	UploadID string
	Records  []books.Book
}

func (LedgerUpsert) isCommand() {}
func (SnapshotSave) isCommand() {}

// Sink consumes persistence commands. Enqueue must not block on I/O.
type Sink interface {
	Enqueue(Command)
}

// NopSink drops every command. Used when no user is signed in: pricing and
// editing still work, persistence is skipped.
type NopSink struct{}

func (NopSink) Enqueue(Command) {}

// Session is the working state between one import and the next. A new
// import replaces the session wholesale.
type Session struct {
	Class    string
	Course   string
	Defaults books.Defaults
	UploadID string

	Textbooks []books.Book
	Notebooks []books.Book

	sink Sink
}

// New builds a session over freshly reconciled lists.
func New(class, course string, defaults books.Defaults, lists books.Lists, uploadID string, sink Sink) *Session {
	if sink == nil {
		sink = NopSink{}
	}
	return &Session{
		Class:     class,
		Course:    course,
		Defaults:  defaults,
		UploadID:  uploadID,
		Textbooks: lists.Textbooks,
		Notebooks: lists.Notebooks,
		sink:      sink,
	}
}

// Update applies one mutation to the named working list and emits a ledger
// upsert for every touched record. Returns how many records changed.
func (s *Session) Update(typ books.Type, m books.Mutation) (int, error) {
	list := s.list(typ)
	updated, touched, err := books.Apply(list, m)
	if err != nil {
		return 0, err
	}
	s.setList(typ, updated)
	for _, b := range touched {
		identity := b.Identity()
		if identity == "" {
			// Never write ledger entries under an empty key.
			continue
		}
		s.sink.Enqueue(LedgerUpsert{Identity: identity, Entry: books.EntryFor(b)})
	}
	return len(touched), nil
}

// Save emits snapshot commands for both full lists. Display filters never
// narrow what gets persisted.
func (s *Session) Save() {
	s.sink.Enqueue(SnapshotSave{UploadID: s.UploadID, Records: s.Textbooks})
	s.sink.Enqueue(SnapshotSave{UploadID: s.UploadID, Records: s.Notebooks})
}

// Filtered returns display views of both lists.
func (s *Session) Filtered(f books.Filters) (textbooks, notebooks []books.Book) {
	return books.Filter(s.Textbooks, f), books.Filter(s.Notebooks, f)
}

// Totals recomputes the summed final prices of the full lists.
func (s *Session) Totals() books.Totals {
	return books.ComputeTotals(s.Textbooks, s.Notebooks)
}

func (s *Session) list(typ books.Type) []books.Book {
	if typ == books.Notebook {
		return s.Notebooks
	}
	return s.Textbooks
}

func (s *Session) setList(typ books.Type, list []books.Book) {
	if typ == books.Notebook {
		s.Notebooks = list
		return
	}
	s.Textbooks = list
}
