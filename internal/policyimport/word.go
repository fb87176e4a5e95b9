package policyimport

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/TripDesk-Travel/Attachment-Service/internal/models"
	"github.com/TripDesk-Travel/Attachment-Service/internal/services"
	log "github.com/sirupsen/logrus"
)

// WordExtractor pulls the raw text out of a .docx (a zip holding
// word/document.xml) and applies line heuristics. When no rows come out of
// the heuristics the extracted text goes to the remote extraction function.
type WordExtractor struct {
	Functions *services.FunctionsClient
}

var amountInLine = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
var currencyInLine = regexp.MustCompile(`\b([A-Z]{3})\b`)

// categorySpellings fixes the spelling scan order; map iteration would make
// a line naming two categories resolve differently across runs.
var categorySpellings = func() []string {
	s := make([]string, 0, len(categoryValues))
	for spelling := range categoryValues {
		s = append(s, spelling)
	}
	sort.Strings(s)
	return s
}()

// categoryInLine returns the spelling that occurs earliest in the line; a
// longer spelling wins a tie at the same position.
func categoryInLine(lower string) string {
	best, bestIdx := "", -1
	for _, spelling := range categorySpellings {
		idx := strings.Index(lower, spelling)
		if idx < 0 {
			continue
		}
		if bestIdx == -1 || idx < bestIdx || (idx == bestIdx && len(spelling) > len(best)) {
			best, bestIdx = spelling, idx
		}
	}
	return best
}

func (e *WordExtractor) Extract(ctx context.Context, name string, data []byte) ([]models.ParsedRule, error) {
	lines, err := docxLines(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	var rules []models.ParsedRule
	for i, line := range lines {
		fields, ok := fieldsFromLine(line)
		if !ok {
			continue
		}
		rules = append(rules, buildRule(i+1, fields))
	}
	if len(rules) > 0 {
		return rules, nil
	}

	// Free-form documents defeat the line heuristics; hand the text to the
	// extraction function instead.
	if e.Functions == nil {
		return nil, fmt.Errorf("no rule lines found in %s", name)
	}
	log.Infof("[IMPORT] no rule lines found in %s, falling back to remote extraction", name)
	return extractViaFunction(ctx, e.Functions, map[string]interface{}{
		"text": strings.Join(lines, "\n"),
	})
}

// fieldsFromLine treats a paragraph as a candidate rule when it names a
// known category and carries a number.
func fieldsFromLine(line string) (map[string]string, bool) {
	lower := strings.ToLower(line)
	category := categoryInLine(lower)
	if category == "" {
		return nil, false
	}

	amount := amountInLine.FindString(line)
	if amount == "" {
		return nil, false
	}

	fields := map[string]string{
		"category":   category,
		"max_amount": amount,
	}
	if m := currencyInLine.FindStringSubmatch(line); m != nil {
		fields["currency"] = m[1]
	}
	if strings.Contains(lower, "trip") || strings.Contains(lower, "נסיעה") {
		fields["per"] = "trip"
	}
	return fields, true
}

// docxLines returns the document's paragraphs as plain text lines.
func docxLines(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var doc io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc, err = f.Open()
			if err != nil {
				return nil, err
			}
			break
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("no word/document.xml entry")
	}
	defer doc.Close()

	decoder := xml.NewDecoder(doc)
	var lines []string
	var current strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			current.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" {
				if line := strings.TrimSpace(current.String()); line != "" {
					lines = append(lines, line)
				}
				current.Reset()
			}
		}
	}
	if line := strings.TrimSpace(current.String()); line != "" {
		lines = append(lines, line)
	}
	return lines, nil
}
