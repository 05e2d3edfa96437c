// Package domain defines core types and errors for the sales warehouse pipeline.
package domain

import "fmt"

// SourceUnavailableError indicates the transactional store could not be opened.
type SourceUnavailableError struct {
	Message string
}

func (e *SourceUnavailableError) Error() string { return e.Message }

// TableNotFoundError indicates a named table does not exist in the source store.
type TableNotFoundError struct {
	Message string
}

func (e *TableNotFoundError) Error() string { return e.Message }

// SnapshotMissingError indicates the extractor has not yet produced a snapshot.
type SnapshotMissingError struct {
	Message string
}

func (e *SnapshotMissingError) Error() string { return e.Message }

// SchemaMismatchError indicates a staged view is missing an expected column.
// Signals source/lake drift; not recoverable within a run.
type SchemaMismatchError struct {
	Message string
}

func (e *SchemaMismatchError) Error() string { return e.Message }

// DestinationWriteError indicates the analytical store could not be written.
type DestinationWriteError struct {
	Message string
}

func (e *DestinationWriteError) Error() string { return e.Message }

// ErrSourceUnavailable creates a SourceUnavailableError with a formatted message.
func ErrSourceUnavailable(format string, args ...interface{}) *SourceUnavailableError {
	return &SourceUnavailableError{Message: fmt.Sprintf(format, args...)}
}

// ErrTableNotFound creates a TableNotFoundError with a formatted message.
func ErrTableNotFound(format string, args ...interface{}) *TableNotFoundError {
	return &TableNotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrSnapshotMissing creates a SnapshotMissingError with a formatted message.
func ErrSnapshotMissing(format string, args ...interface{}) *SnapshotMissingError {
	return &SnapshotMissingError{Message: fmt.Sprintf(format, args...)}
}

// ErrSchemaMismatch creates a SchemaMismatchError with a formatted message.
func ErrSchemaMismatch(format string, args ...interface{}) *SchemaMismatchError {
	return &SchemaMismatchError{Message: fmt.Sprintf(format, args...)}
}

// ErrDestinationWrite creates a DestinationWriteError with a formatted message.
func ErrDestinationWrite(format string, args ...interface{}) *DestinationWriteError {
	return &DestinationWriteError{Message: fmt.Sprintf(format, args...)}
}
