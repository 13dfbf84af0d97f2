package service

import (
	"fmt"
	"strings"

	"github.com/pageza/feedback/backend/internal/models"
)

const (
	FormatText = "txt"
	FormatJSON = "json"
)

// ExportDocument is the JSON export body
type ExportDocument struct {
	Messages []models.Message `json:"messages"`
}

// ExportText renders one line per message, oldest first as given:
//
//	[+] 2011-05-03T12:07:09Z: Great tool! (Flask-1.0)
func ExportText(items []models.Feedback) string {
	lines := make([]string, 0, len(items))
	for i := range items {
		fb := &items[i]
		lines = append(lines, fmt.Sprintf("[%s] %s: %s (Flask-%s)",
			fb.Symbol(), fb.PubDateString(), fb.Text, fb.VersionLabel()))
	}
	return strings.Join(lines, "\n")
}

// ExportJSON builds the JSON export. An empty export has an empty array.
func ExportJSON(items []models.Feedback) ExportDocument {
	doc := ExportDocument{Messages: make([]models.Message, 0, len(items))}
	for i := range items {
		doc.Messages = append(doc.Messages, items[i].ToMessage())
	}
	return doc
}
