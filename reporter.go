package langsync

import "context"

// EventKind identifies a progress event.
type EventKind int

const (
	// EventLanguages is sent once with the discovered target languages.
	EventLanguages EventKind = iota + 1
	// EventBackup is sent after the archive was created and verified.
	EventBackup
	// EventSkipped is sent for a base file no codec can read.
	EventSkipped
	// EventSorted is sent after a base file was sorted in place.
	EventSorted
	// EventMerged is sent after a target file was written.
	EventMerged
	// EventConflict is sent for a key whose shape differs between base
	// and target. The target value is kept.
	EventConflict
	// EventInvalidLanguage is sent for a directory name that is not a
	// well-formed language tag. The directory is still processed.
	EventInvalidLanguage
)

func (k EventKind) String() string {
	switch k {
	case EventLanguages:
		return "languages"
	case EventBackup:
		return "backup"
	case EventSkipped:
		return "skipped"
	case EventSorted:
		return "sorted"
	case EventMerged:
		return "merged"
	case EventConflict:
		return "conflict"
	case EventInvalidLanguage:
		return "invalid_language"
	}
	return "unknown"
}

// Event describes one step of a run. Fields irrelevant to Kind are empty.
type Event struct {
	Kind      EventKind
	Language  string
	Path      string
	Key       string
	Message   string
	Languages []string
	Added     int
	// Created is true when a merged file did not exist before.
	Created bool
}

// Reporter receives progress events. Calls happen on the goroutine running
// Process, in pipeline order.
type Reporter interface {
	Report(ctx context.Context, e Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, e Event)

func (f ReporterFunc) Report(ctx context.Context, e Event) { f(ctx, e) }

type nopReporter struct{}

func (nopReporter) Report(context.Context, Event) {}
