package fortune

import (
	"fmt"

	"github.com/PabloGalante/pill-oracle/internal/domain"
)

// Prompt builds the themed instruction sent as the request message. Length
// and sentence count shape the request; replies are not validated against
// them.
func Prompt(theme domain.Theme) string {
	return fmt.Sprintf(
		"Generate a %s themed fortune, 2-3 sentences, 50-150 characters total.",
		framing(theme),
	)
}

func framing(theme domain.Theme) string {
	switch theme {
	case domain.ThemeTruth:
		return "truth/awakening"
	case domain.ThemeComfort:
		fallthrough
	default:
		return "comfort/bliss"
	}
}
