package types

// OutcomeKind is the terminal state of one file's transfer
type OutcomeKind int

const (
	// OutcomeCompleted means the file is fully present on disk
	OutcomeCompleted OutcomeKind = iota
	// OutcomeSkipped means the file was excluded before any transfer started
	OutcomeSkipped
	// OutcomeFailedFatal means the transfer can never succeed for this file
	OutcomeFailedFatal
)

// String returns a human readable name for the outcome kind
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCompleted:
		return "completed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailedFatal:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome records the terminal state of one file's transfer
type Outcome struct {
	Descriptor FileDescriptor
	Kind       OutcomeKind
	Reason     string // Empty for completed transfers
}

// Completed builds a completed outcome for a descriptor
func Completed(d FileDescriptor) Outcome {
	return Outcome{Descriptor: d, Kind: OutcomeCompleted}
}

// Skipped builds a skipped outcome with the reason it was excluded
func Skipped(d FileDescriptor, reason string) Outcome {
	return Outcome{Descriptor: d, Kind: OutcomeSkipped, Reason: reason}
}

// FailedFatal builds a fatal failure outcome with the reason it failed
func FailedFatal(d FileDescriptor, reason string) Outcome {
	return Outcome{Descriptor: d, Kind: OutcomeFailedFatal, Reason: reason}
}

// RunSummary accumulates the terminal outcome of every file in a run
type RunSummary struct {
	Outcomes []Outcome
}

// Add appends one terminal outcome to the summary
func (s *RunSummary) Add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
}

// Counts returns how many files completed, were skipped and failed
func (s *RunSummary) Counts() (completed, skipped, failed int) {
	for _, o := range s.Outcomes {
		switch o.Kind {
		case OutcomeCompleted:
			completed++
		case OutcomeSkipped:
			skipped++
		case OutcomeFailedFatal:
			failed++
		}
	}
	return completed, skipped, failed
}

// Failed returns the outcomes of files that ended in a fatal failure
func (s *RunSummary) Failed() []Outcome {
	var failed []Outcome
	for _, o := range s.Outcomes {
		if o.Kind == OutcomeFailedFatal {
			failed = append(failed, o)
		}
	}
	return failed
}
