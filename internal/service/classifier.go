package service

import (
	"regexp"
	"strings"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/domain"
)

// Header markers in priority order. A line containing one of them switches
// the current section and is never stored.
var sectionMarkers = []struct {
	marker  string
	section domain.Section
}{
	{"alternative medicine", domain.SectionAlternative},
	{"conventional medicine", domain.SectionConventional},
	{"disclaimer", domain.SectionDisclaimer},
}

var ordinalPrefix = regexp.MustCompile(`^\d+\.\s+`)

// Classifier assigns generated lines to sections. It is owned by a single
// request and is not safe for concurrent use.
type Classifier struct {
	current  domain.Section
	sections domain.ClassifiedSections
}

// NewClassifier creates a classifier with no current section
func NewClassifier() *Classifier {
	return &Classifier{current: domain.SectionNone}
}

// Feed classifies one logical line
func (c *Classifier) Feed(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	if section, ok := headerSection(line); ok {
		c.current = section
		return
	}

	line = ordinalPrefix.ReplaceAllString(line, "")
	switch c.current {
	case domain.SectionAlternative:
		c.sections.Alternatives = append(c.sections.Alternatives, line)
	case domain.SectionConventional:
		c.sections.Conventional = append(c.sections.Conventional, line)
	case domain.SectionDisclaimer:
		c.sections.Disclaimer = append(c.sections.Disclaimer, line)
	}
	// SectionNone: dropped
}

// Current returns the section the next content line would be assigned to
func (c *Classifier) Current() domain.Section {
	return c.current
}

// Sections returns a copy of the lines classified so far
func (c *Classifier) Sections() domain.ClassifiedSections {
	return c.sections.Clone()
}

func headerSection(line string) (domain.Section, bool) {
	lower := strings.ToLower(line)
	for _, m := range sectionMarkers {
		if strings.Contains(lower, m.marker) {
			return m.section, true
		}
	}
	return domain.SectionNone, false
}

// ClassifyText classifies a fully materialized body
func ClassifyText(text string) domain.ClassifiedSections {
	c := NewClassifier()
	for _, line := range strings.Split(text, "\n") {
		c.Feed(line)
	}
	return c.Sections()
}

// Reassembler rebuilds lines from fragments that may split a line anywhere
// and feeds each complete line to a Classifier.
type Reassembler struct {
	classifier *Classifier
	pending    strings.Builder
	closed     bool
}

// NewReassembler creates a reassembler over a fresh classifier
func NewReassembler() *Reassembler {
	return &Reassembler{classifier: NewClassifier()}
}

// Write consumes one fragment. It never fails; the error return lets a
// Reassembler sit behind an io.Writer.
func (r *Reassembler) Write(p []byte) (int, error) {
	r.WriteString(string(p))
	return len(p), nil
}

// WriteString consumes one fragment
func (r *Reassembler) WriteString(fragment string) {
	if r.closed || fragment == "" {
		return
	}
	for {
		idx := strings.IndexByte(fragment, '\n')
		if idx < 0 {
			r.pending.WriteString(fragment)
			return
		}
		r.pending.WriteString(fragment[:idx])
		r.classifier.Feed(r.pending.String())
		r.pending.Reset()
		fragment = fragment[idx+1:]
	}
}

// Close classifies any trailing partial line and returns the final sections.
// Further writes are ignored.
func (r *Reassembler) Close() domain.ClassifiedSections {
	if !r.closed {
		r.classifier.Feed(r.pending.String())
		r.pending.Reset()
		r.closed = true
	}
	return r.classifier.Sections()
}

// Sections returns the lines classified from complete lines so far
func (r *Reassembler) Sections() domain.ClassifiedSections {
	return r.classifier.Sections()
}
