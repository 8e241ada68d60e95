// ABOUTME: Diary document models: sections, dated documents and stored entries
// ABOUTME: Document.Markdown defines the on-disk markdown layout
package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout formats the document date and file base name (YYYY_MM_DD)
const DateLayout = "2006_01_02"

// Section names in the order they are prompted
const (
	SectionToday     = "Today"
	SectionProblems  = "Problems"
	SectionFindings  = "Findings"
	SectionQuestions = "Questions"
)

// DefaultSections returns the fixed prompt order for a diary session
func DefaultSections() []string {
	return []string{SectionToday, SectionProblems, SectionFindings, SectionQuestions}
}

// Section pairs a section name with its content
type Section struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Document is one day's diary body
type Document struct {
	Date     string    `json:"date"`
	Sections []Section `json:"sections"`
}

// NewDocument creates an empty document dated t
func NewDocument(t time.Time) *Document {
	return &Document{Date: t.Format(DateLayout)}
}

// Add appends a section
func (d *Document) Add(name, content string) {
	d.Sections = append(d.Sections, Section{Name: name, Content: content})
}

// Markdown renders the date header followed by every section, each
// terminated by a blank line
func (d *Document) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Date)
	for _, s := range d.Sections {
		fmt.Fprintf(&b, "# %s\n\n%s\n\n", s.Name, s.Content)
	}
	return b.String()
}

// Entry describes a diary file found in the log directory
type Entry struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Date       string    `json:"date"`
	HasSidecar bool      `json:"has_sidecar"`
	ModTime    time.Time `json:"mod_time"`
}

// SearchResult is an entry ranked by embedding similarity
type SearchResult struct {
	Name            string  `json:"name"`
	Path            string  `json:"path"`
	SimilarityScore float64 `json:"similarity_score"`
}
