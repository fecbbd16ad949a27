package linguist

import "fmt"

// GrammarError is the error surfaced while constructing a grammar or
// a parser out of one: a start symbol without productions, a
// production referencing a non-terminal that has no rule, an empty
// terminal literal, a malformed character range.
type GrammarError struct {
	Message string
}

func (e GrammarError) Error() string {
	return "grammar: " + e.Message
}

func grammarErrorf(format string, args ...any) GrammarError {
	return GrammarError{Message: fmt.Sprintf(format, args...)}
}

// NotationError is the error thrown when the grammar notation reader
// can't finish successfuly.  The range points at cursor positions
// within the notation source.
type NotationError struct {
	Message string
	Range   Range
}

func (e NotationError) Error() string {
	return fmt.Sprintf("%s @ %s", e.Message, e.Range)
}

// backtrackingError is an internal error type that is captured by the
// choice operator of the notation reader
type backtrackingError struct {
	Expected string
	Message  string
	Range    Range
}

func (e backtrackingError) Error() string {
	return fmt.Sprintf("%s @ %s", e.Message, e.Range)
}
