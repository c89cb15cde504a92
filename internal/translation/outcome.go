package translation

// Outcome is the result of one translation request: Success or Failure.
type Outcome interface {
	outcome()
}

// Success carries the translated text and, when known, the detected
// language of the source text.
type Success struct {
	Text           string
	SourceLanguage string
}

// Failure carries a printable description of what went wrong.
type Failure struct {
	Message string
}

func (Success) outcome() {}
func (Failure) outcome() {}
