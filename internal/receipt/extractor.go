// Package receipt finds the total amount and date in OCR text from a
// photographed receipt.
package receipt

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	keywordPattern  = `(?i)total|grand|amount|balance`
	lineItemPattern = `(?i)(@|qty|x\s*\d)`
)

// Extractor scores numbers on receipt lines. It is safe for concurrent use.
type Extractor struct {
	amount   *regexp.Regexp
	keyword  *regexp.Regexp
	lineItem *regexp.Regexp
	dates    []datePattern
	cfg      Config
}

// Receipt is what could be read from a set of lines.
type Receipt struct {
	Date       time.Time
	Total      decimal.Decimal
	Candidates AmountCandidates
	HasDate    bool
	HasTotal   bool
}

// NewExtractor compiles the patterns for cfg.
func NewExtractor(cfg Config) (*Extractor, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.DateOrder == "" {
		cfg.DateOrder = OrderMDY
	}

	amount, err := regexp.Compile(amountPattern(cfg.CurrencyMarkers, cfg.DecimalSeparator))
	if err != nil {
		return nil, fmt.Errorf("failed to compile amount pattern: %w", err)
	}

	return &Extractor{
		cfg:      cfg,
		amount:   amount,
		keyword:  regexp.MustCompile(keywordPattern),
		lineItem: regexp.MustCompile(lineItemPattern),
		dates:    compileDatePatterns(),
	}, nil
}

// amountPattern builds the money regex. Group 1 is the integer part and group
// 2 the optional two digit fraction including its separator. Grouped forms are
// tried first so "1150.00" is not cut short at "115".
func amountPattern(markers []string, sep rune) string {
	group, frac := `,`, `\.`
	if sep == ',' {
		group, frac = `\.`, `,`
	}

	var b strings.Builder
	b.WriteString(`(?i)`)

	if len(markers) > 0 {
		sorted := append([]string(nil), markers...)
		sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
		quoted := make([]string, 0, len(sorted))
		for _, m := range sorted {
			if m = strings.TrimSpace(m); m != "" {
				quoted = append(quoted, regexp.QuoteMeta(m))
			}
		}
		if len(quoted) > 0 {
			b.WriteString(`(?:(?:` + strings.Join(quoted, "|") + `)\s*)?`)
		}
	}

	b.WriteString(`([0-9]{1,3}(?:` + group + `[0-9]{3})+|[0-9]+)(` + frac + `[0-9]{2})?`)
	return b.String()
}

// LineWeight scores a single line.
func (e *Extractor) LineWeight(line string) int {
	w := e.cfg.Weights.Base
	if e.keyword.MatchString(line) {
		w += e.cfg.Weights.KeywordBonus
	}
	if e.lineItem.MatchString(line) {
		w -= e.cfg.Weights.LineItemPenalty
	}
	return w
}

// Candidates returns every amount found in lines, in reading order.
func (e *Extractor) Candidates(lines []string) AmountCandidates {
	var out AmountCandidates
	for i, line := range lines {
		weight := e.LineWeight(line)
		for _, m := range e.amount.FindAllStringSubmatch(line, -1) {
			raw := m[1] + m[2]
			value, ok := ParseAmount(raw, e.cfg.DecimalSeparator)
			if !ok {
				continue
			}
			out = append(out, AmountCandidate{
				Value:  value,
				Raw:    raw,
				Weight: weight,
				Line:   i,
			})
		}
	}
	return out
}

// ExtractTotal returns the heaviest candidate, the larger value on ties.
func (e *Extractor) ExtractTotal(lines []string) (decimal.Decimal, bool) {
	top := e.Candidates(lines).Top()
	if top == nil {
		return decimal.Zero, false
	}
	return top.Value, true
}

// Extract reads both the total and the date.
func (e *Extractor) Extract(lines []string) Receipt {
	r := Receipt{Candidates: e.Candidates(lines)}
	if top := r.Candidates.TopN(1); len(top) == 1 {
		r.Total, r.HasTotal = top[0].Value, true
	}
	r.Date, r.HasDate = e.ExtractDate(lines)
	return r
}

// ParseAmount parses a money string written with the given decimal separator.
// The other separator is treated as thousands grouping. Text that is not a
// non-negative number yields false.
func ParseAmount(raw string, sep rune) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}

	switch sep {
	case ',':
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	default:
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}
