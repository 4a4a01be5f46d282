package ingest

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-shiori/go-readability"
)

// IsHTMLPath reports whether path looks like an HTML document.
func IsHTMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// ExtractHTMLText pulls the readable article text out of an HTML file,
// discarding markup, navigation, and boilerplate.
func ExtractHTMLText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	article, err := readability.FromReader(f, &url.URL{Scheme: "file", Path: path})
	if err != nil {
		return "", fmt.Errorf("extract article text from %s: %w", path, err)
	}
	return article.TextContent, nil
}
