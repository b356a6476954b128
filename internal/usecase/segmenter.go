package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pantrytrack/backend/internal/domain"
)

// Segmenter splits raw receipt OCR text into candidate line items.
// Implementations are pure and never fail; empty text yields an empty slice.
type Segmenter interface {
	Segment(text string) []domain.CandidateLineItem
}

// DetectLayout picks the segmentation pipeline for a receipt from its content
func DetectLayout(text string) domain.ReceiptLayout {
	lowered := strings.ToLower(text)
	for _, marker := range superstoreMarkers {
		if strings.Contains(lowered, marker) {
			return domain.LayoutSuperstore
		}
	}
	return domain.LayoutGeneric
}

// SegmenterFor returns the segmenter that handles a layout
func SegmenterFor(layout domain.ReceiptLayout) Segmenter {
	if layout == domain.LayoutSuperstore {
		return superstoreSegmenter{}
	}
	return genericSegmenter{}
}

// SegmentReceipt detects the layout of the text and segments it
func SegmentReceipt(text string) (domain.ReceiptLayout, []domain.CandidateLineItem) {
	layout := DetectLayout(text)
	return layout, SegmenterFor(layout).Segment(text)
}

// splitLines splits OCR text on any newline convention
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// collapseSpaces trims and collapses internal whitespace
func collapseSpaces(s string) string {
	return strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(s, " "))
}

// titleCase capitalizes the first letter of each word and lowercases the rest
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}

// capitalizeToken title-cases a single receipt token. Tokens carrying digits
// (sizes such as 4L or 2%) are kept as printed.
func capitalizeToken(token string) string {
	for _, r := range token {
		if unicode.IsDigit(r) {
			return token
		}
	}
	return titleCase(token)
}

// lettersOnly lowercases a token and drops everything but ASCII letters
func lettersOnly(token string) string {
	return nonLetterRegex.ReplaceAllString(strings.ToLower(token), "")
}

// letterCount counts letters in s
func letterCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
