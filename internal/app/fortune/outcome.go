package fortune

import "github.com/PabloGalante/pill-oracle/internal/domain"

// Outcome is the result of one request sequence: either a usable fortune or
// the reason there is none. It never leaves the controller; Content maps it
// onto display text.
type Outcome struct {
	fortune string
	err     error
}

func Ok(fortune string) Outcome { return Outcome{fortune: fortune} }

func Err(reason error) Outcome { return Outcome{err: reason} }

func (o Outcome) IsOk() bool { return o.err == nil && o.fortune != "" }

func (o Outcome) Reason() error { return o.err }

// Content returns the text to display for theme. Every outcome has one.
func (o Outcome) Content(theme domain.Theme) string {
	if !o.IsOk() {
		return theme.Fallback()
	}
	return o.fortune
}
