package cli

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	md "github.com/nao1215/markdown"
)

// print writes markdown to the output, styled for the terminal unless plain
// output was requested.
func (a *app) print(markdown string) error {
	if !strings.HasSuffix(markdown, "\n") {
		markdown += "\n"
	}

	if a.plain {
		_, err := io.WriteString(a.out, markdown)
		return err //nolint:wrapcheck
	}

	if a.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(a.width),
		)
		if err != nil {
			return fmt.Errorf("glamour.NewTermRenderer: %w", err)
		}

		a.renderer = r
	}

	styled, err := a.renderer.Render(markdown)
	if err != nil {
		return fmt.Errorf("renderer.Render: %w", err)
	}

	_, err = io.WriteString(a.out, styled)

	return err //nolint:wrapcheck
}

// printDoc builds a document with fill and prints it.
func (a *app) printDoc(fill func(doc *md.Markdown)) error {
	var buf bytes.Buffer

	doc := md.NewMarkdown(&buf)
	fill(doc)

	if err := doc.Build(); err != nil {
		return fmt.Errorf("doc.Build: %w", err)
	}

	return a.print(buf.String())
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...) //nolint:errcheck
}
