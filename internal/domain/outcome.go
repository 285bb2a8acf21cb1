package domain

// Outcome is the tagged result of one repository request.
// The concrete types are Loading, Success and Failure.
type Outcome interface {
	isOutcome()
}

// Loading is emitted first by every request
type Loading struct{}

// Success carries the planets of one page (or the cache contents when offline)
type Success struct {
	Planets   []Planet
	FromCache bool
}

// Failure carries a human readable reason
type Failure struct {
	Message string
	Err     error
}

func (Loading) isOutcome() {}
func (Success) isOutcome() {}
func (Failure) isOutcome() {}
