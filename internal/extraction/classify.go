// Package extraction turns the ordered text lines recognized on a business
// card into a structured Record.
//
// Every line goes through two rule groups. The primary group assigns the line
// to at most one of website, email, mobile number, company, card holder or
// designation. The address group runs unconditionally and may add the same
// line to area, city, state and pin code.
package extraction

import (
	"regexp"
	"strings"
	"unicode"
)

// websiteAnchorIndex is the line an uppercase "WWW" fragment borrows its host from.
const websiteAnchorIndex = 5

var (
	areaLeadingPattern = regexp.MustCompile(`^[0-9].+, [a-zA-Z]+`)
	areaLoosePattern   = regexp.MustCompile(`[0-9] [a-zA-Z]+`)

	cityStreetSpacePattern  = regexp.MustCompile(`.+St , ([a-zA-Z]+).+`)
	cityStreetDoublePattern = regexp.MustCompile(`.+St,, ([a-zA-Z]+).+`)
	cityLeadingEPattern     = regexp.MustCompile(`^[E].*`)

	stateWordPattern       = regexp.MustCompile(`[a-zA-Z]{9} +[0-9]`)
	stateTerminatedPattern = regexp.MustCompile(`^[0-9].+, ([a-zA-Z]+);`)
)

// linePosition flags the fixed slots a line occupies in the sequence.
type linePosition uint8

const (
	positionFirst linePosition = 1 << iota
	positionSecond
	positionLast
)

func positionOf(index, count int) linePosition {
	var p linePosition
	if index == 0 {
		p |= positionFirst
	}
	if index == 1 {
		p |= positionSecond
	}
	if index == count-1 {
		p |= positionLast
	}
	return p
}

func (p linePosition) has(flag linePosition) bool { return p&flag != 0 }

// Classify builds a Record from the recognized lines of one card.
// An empty slice yields an empty Record.
func Classify(lines []string) (Record, error) {
	var rec Record
	for i, line := range lines {
		if err := classifyPrimary(&rec, lines, i); err != nil {
			return Record{}, err
		}
		classifyAddress(&rec, line)
	}
	return rec, nil
}

// classifyPrimary applies the first matching content rule, falling back to
// the positional rules when no content rule fires.
func classifyPrimary(rec *Record, lines []string, i int) error {
	line := lines[i]
	switch {
	case strings.Contains(strings.ToLower(line), "www."):
		rec.Website.add(line)
	case strings.Contains(line, "WWW"):
		if len(lines) <= websiteAnchorIndex {
			return &PositionalRuleError{
				Rule:      "website",
				LineIndex: i,
				Want:      websiteAnchorIndex,
				LineCount: len(lines),
			}
		}
		rec.Website.overwrite("www." + lines[websiteAnchorIndex])
	case strings.Contains(line, "@"):
		rec.Email.add(line)
	case strings.Contains(line, "-"):
		rec.addMobile(line)
	default:
		classifyPosition(rec, line, positionOf(i, len(lines)))
	}
	return nil
}

func classifyPosition(rec *Record, line string, pos linePosition) {
	switch {
	case pos.has(positionLast):
		rec.CompanyName.add(line)
	case pos.has(positionFirst):
		rec.CardHolder.add(line)
	case pos.has(positionSecond):
		rec.Designation.add(line)
	}
}

func classifyAddress(rec *Record, line string) {
	if area, ok := matchArea(line); ok {
		rec.Area.add(area)
	}
	if city, ok := matchCity(line); ok {
		rec.City.add(city)
	}
	if state, ok := matchState(line); ok {
		rec.addState(state)
	}
	if pin, ok := matchPinCode(line); ok {
		rec.PinCode.add(pin)
	}
}

func matchArea(line string) (string, bool) {
	if areaLeadingPattern.MatchString(line) {
		area, _, _ := strings.Cut(line, ",")
		return area, true
	}
	if areaLoosePattern.MatchString(line) {
		return line, true
	}
	return "", false
}

func matchCity(line string) (string, bool) {
	if m := cityStreetSpacePattern.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := cityStreetDoublePattern.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := cityLeadingEPattern.FindString(line); m != "" {
		return m, true
	}
	return "", false
}

func matchState(line string) (string, bool) {
	if stateWordPattern.MatchString(line) {
		return runePrefix(line, 9), true
	}
	if stateTerminatedPattern.MatchString(line) {
		fields := strings.Fields(line)
		return fields[len(fields)-1], true
	}
	return "", false
}

func matchPinCode(line string) (string, bool) {
	if isDigits(line) && len([]rune(line)) >= 6 {
		return line, true
	}
	if stateWordPattern.MatchString(line) {
		return runeSuffix(line, 10), true
	}
	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// runePrefix returns the first n characters of s.
func runePrefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// runeSuffix returns s from character offset n on, or "" when s is shorter.
func runeSuffix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return ""
	}
	return string(r[n:])
}
