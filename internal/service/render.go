package service

import (
	"fmt"
	"io"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/domain"
)

// Sink is an output that can push buffered bytes to the client
type Sink interface {
	io.Writer
	Flush()
}

// RenderSections writes classified sections in the client text layout,
// flushing after each block.
func RenderSections(w Sink, disease string, sections domain.ClassifiedSections, includeDisease bool) error {
	if includeDisease {
		if _, err := fmt.Fprintf(w, "**Predicted Disease:**\n %s\n\n", disease); err != nil {
			return err
		}
		w.Flush()
	}

	if err := renderNumbered(w, "**Alternative Medicine**\n\n", sections.Alternatives); err != nil {
		return err
	}
	if err := renderNumbered(w, "\n**Conventional Medicine**\n\n", sections.Conventional); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "\n**Disclaimer**\n\n"); err != nil {
		return err
	}
	for _, line := range sections.Disclaimer {
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}
	w.Flush()
	return nil
}

func renderNumbered(w Sink, header string, items []string) error {
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	for i, item := range items {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, item); err != nil {
			return err
		}
	}
	w.Flush()
	return nil
}

// ErrorEvent formats a pipeline failure as an in-band stream event
func ErrorEvent(err error) string {
	return fmt.Sprintf("data: Error occurred: %s\n\n", err.Error())
}
