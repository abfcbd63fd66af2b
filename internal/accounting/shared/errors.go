package shared

import "errors"

var (
	// ErrFiscalYearNotFound indicates missing fiscal year.
	ErrFiscalYearNotFound = errors.New("accounting: fiscal year not found")
	// ErrCompanyNotFound indicates missing company.
	ErrCompanyNotFound = errors.New("accounting: company not found")
	// ErrFiscalYearClosed indicates a mutation against a closed year.
	ErrFiscalYearClosed = errors.New("accounting: fiscal year is closed")
	// ErrSnapshotNotFound indicates a closed year without a posted statement.
	ErrSnapshotNotFound = errors.New("accounting: statement snapshot not found")
	// ErrSnapshotExists indicates a second snapshot post for the same year.
	ErrSnapshotExists = errors.New("accounting: statement snapshot already posted")
	// ErrAccountNotFound indicates missing account.
	ErrAccountNotFound = errors.New("accounting: account not found")
	// ErrEntryNotPosted indicates a draft entry where a posted one is required.
	ErrEntryNotPosted = errors.New("accounting: journal entry is not posted")
)
