package ocr

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Fields are the receipt values parsed out of raw extracted text,
// best-effort. The Add-Receipt flow uses them to prefill the form; the user
// corrects anything the parser got wrong.
type Fields struct {
	Vendor       string
	TotalCents   *int64
	TaxCents     *int64
	PurchaseDate *time.Time
}

var (
	totalRe  = regexp.MustCompile(`(?im)^.*\btotal\b[^0-9-]*(-?\d{1,6})[.,](\d{2})\b`)
	taxRe    = regexp.MustCompile(`(?im)^.*\b(?:tax|vat|mwst|ddv)\b[^0-9-]*(?:\d{1,3}\s?%[^0-9-]*)?(-?\d{1,6})[.,](\d{2})\b`)
	amountRe = regexp.MustCompile(`(-?\d{1,6})[.,](\d{2})\b`)
	dateRe   = regexp.MustCompile(`\b(\d{1,4})[./-](\d{1,2})[./-](\d{1,4})\b`)
)

// ParseFields extracts vendor, amounts and date from receipt text.
func ParseFields(raw string) Fields {
	var f Fields

	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			f.Vendor = line
			break
		}
	}

	f.TotalCents = matchCents(totalRe, raw)
	if f.TotalCents == nil {
		// Fall back to the largest amount on the receipt.
		f.TotalCents = largestAmount(raw)
	}
	f.TaxCents = matchCents(taxRe, raw)
	f.PurchaseDate = matchDate(raw)
	return f
}

func matchCents(re *regexp.Regexp, raw string) *int64 {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	whole, err1 := strconv.ParseInt(m[1], 10, 64)
	frac, err2 := strconv.ParseInt(m[2], 10, 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	cents := whole*100 + frac
	if whole < 0 {
		cents = whole*100 - frac
	}
	return &cents
}

func largestAmount(raw string) *int64 {
	var best *int64
	for _, m := range amountRe.FindAllStringSubmatch(raw, -1) {
		whole, err1 := strconv.ParseInt(m[1], 10, 64)
		frac, err2 := strconv.ParseInt(m[2], 10, 64)
		if err1 != nil || err2 != nil || whole < 0 {
			continue
		}
		cents := whole*100 + frac
		if best == nil || cents > *best {
			best = &cents
		}
	}
	return best
}

// matchDate tries day-first, then year-first interpretations of the first
// date-shaped token.
func matchDate(raw string) *time.Time {
	m := dateRe.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	c, _ := strconv.Atoi(m[3])

	try := func(year, month, day int) *time.Time {
		if year < 100 {
			year += 2000
		}
		if month < 1 || month > 12 || day < 1 || day > 31 || year < 1990 || year > 2100 {
			return nil
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if t.Day() != day {
			return nil
		}
		return &t
	}

	if a > 1000 {
		return try(a, b, c) // 2024-05-31
	}
	if t := try(c, b, a); t != nil { // 31.05.2024
		return t
	}
	return try(c, a, b) // 05/31/2024
}
