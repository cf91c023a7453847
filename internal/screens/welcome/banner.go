package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codiz/internal/ui/theme"
)

const bannerArt = `
  ██████╗ ██████╗ ██████╗ ██╗███████╗
 ██╔════╝██╔═══██╗██╔══██╗██║╚══███╔╝
 ██║     ██║   ██║██║  ██║██║  ███╔╝
 ██║     ██║   ██║██║  ██║██║ ███╔╝
 ╚██████╗╚██████╔╝██████╔╝██║███████╗
  ╚═════╝ ╚═════╝ ╚═════╝ ╚═╝╚══════╝`

const bannerCompact = "C O D I Z"

// RenderBanner returns the banner styled in the primary color, with a
// compact fallback for terminals narrower than 40 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 40 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
