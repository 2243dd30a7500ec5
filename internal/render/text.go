package render

import (
	"fmt"
	"io"
	"strings"

	"travela/internal/domain"
)

// Text writes a plain-text rendering of res, used by the CLI.
func Text(w io.Writer, res domain.GuideResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", res.Location)
	for _, s := range Sections(res.Guide, res.Photos) {
		fmt.Fprintf(&b, "\n## %s\n", s.Title)
		if s.Text != "" {
			b.WriteString(s.Text)
			b.WriteByte('\n')
		}
		for _, it := range s.Items {
			b.WriteString("- ")
			switch {
			case it.Title != "" && it.Body != "":
				fmt.Fprintf(&b, "%s: %s", it.Title, it.Body)
			case it.Title != "":
				b.WriteString(it.Title)
			default:
				b.WriteString(it.Body)
			}
			if it.Meta != "" {
				fmt.Fprintf(&b, " (%s)", it.Meta)
			}
			if it.Link != "" {
				fmt.Fprintf(&b, " <%s>", it.Link)
			}
			b.WriteByte('\n')
		}
		for _, u := range s.Photos {
			fmt.Fprintf(&b, "- %s\n", u)
		}
	}
	for _, n := range res.Notices {
		fmt.Fprintf(&b, "\n! %s\n", n)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
