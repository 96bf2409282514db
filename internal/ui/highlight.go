package ui

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Highlighter colours shortcut and config file lines for the preview
type Highlighter struct {
	style *chroma.Style
}

// NewHighlighter creates a new syntax highlighter
func NewHighlighter() *Highlighter {
	return &Highlighter{
		style: styles.Get("catppuccin-mocha"),
	}
}

// HighlightLine highlights a single line based on the file it came from
func (h *Highlighter) HighlightLine(line, filename string) string {
	lexer := lexerFor(filename)
	if lexer == nil {
		return line
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	tokens := iterator.Tokens()
	// Lexers may append a newline the line never had
	if n := len(tokens); n > 0 && !strings.HasSuffix(line, "\n") {
		tokens[n-1].Value = strings.TrimSuffix(tokens[n-1].Value, "\n")
	}

	var result strings.Builder
	for _, token := range tokens {
		if token.Value == "" {
			continue
		}
		entry := h.style.Get(token.Type)
		if !entry.Colour.IsSet() {
			result.WriteString(token.Value)
			continue
		}

		styled := lipgloss.NewStyle().Foreground(lipgloss.Color(entry.Colour.String()))
		if entry.Bold == chroma.Yes {
			styled = styled.Bold(true)
		}
		if entry.Italic == chroma.Yes {
			styled = styled.Italic(true)
		}
		result.WriteString(styled.Render(token.Value))
	}

	return result.String()
}

// HighlightLines highlights multiple lines
func (h *Highlighter) HighlightLines(lines []string, filename string) []string {
	result := make([]string, len(lines))
	for i, line := range lines {
		result[i] = h.HighlightLine(line, filename)
	}
	return result
}

// lexerFor returns the lexer for a filename. Internet Shortcut files are
// INI documents.
func lexerFor(filename string) chroma.Lexer {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".url", ".ini", ".desktop":
		return lexers.Get("ini")
	case ".json":
		return lexers.Get("json")
	case ".yaml", ".yml":
		return lexers.Get("yaml")
	case ".env":
		return lexers.Get("bash")
	}
	return lexers.Match(filename)
}

// FileType returns a human-readable file type for display
func FileType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".url":
		return "Internet Shortcut"
	case ".ini", ".desktop":
		return "Config"
	case ".json":
		return "JSON"
	case ".yaml", ".yml":
		return "YAML"
	default:
		return "Text"
	}
}
