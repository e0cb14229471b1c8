package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2E7D32")).
			Bold(true).
			Align(lipgloss.Center).
			Width(80)

	taglineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#66BB6A")).
			Italic(true).
			Align(lipgloss.Center).
			Width(80).
			MarginBottom(1)
)

const banner = `
 _   _                         _
| \ | | __ _ _ __ ___   __ _  ( )  __ _
|  \| |/ _' | '_ ' _ \ / _' | |/  / _' |
| |\  | (_| | | | | | | (_| |    | (_| |
|_| \_|\__,_|_| |_| |_|\__,_|     \__,_|
`

// DisplayWelcomeBanner shows the welcome banner
func DisplayWelcomeBanner(w io.Writer) {
	fmt.Fprintln(w, bannerStyle.Render(banner))
	fmt.Fprintln(w, taglineStyle.Render("نماء · Your intelligent financial advisor"))
}

func displayGoodbye(w io.Writer) {
	fmt.Fprintln(w, "👋 مع السلامة! Thank you for using Nama'a.")
}
