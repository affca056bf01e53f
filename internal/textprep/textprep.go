// Package textprep cleans raw text before it is offered for speech
// synthesis. It normalizes abbreviations, spells out integers, strips
// citation markers, and smooths punctuation, while leaving URLs and email
// addresses intact. Cleaning is always opt-in; block content is stored and
// sent verbatim unless the user asks for it.
package textprep

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Number system boundaries for the word conversion.
const (
	numberBaseTen      = 10
	numberBaseTwenty   = 20
	numberBaseHundred  = 100
	numberBaseThousand = 1000
	// MaxNumberForWords is the largest integer spelled out; anything bigger
	// is left as digits.
	MaxNumberForWords = 999999
)

// Regex patterns.
const (
	urlRegexPattern        = `https?://\S+`
	emailRegexPattern      = `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`
	numberRegexPattern     = `\d+`
	referenceRegexPattern  = `(?:\[\d+\]|\(\d+\)|[¹²³⁴⁵⁶⁷⁸⁹⁰]+)`
	citationRegexPattern   = `\([^)]*\d{4}[^)]*\)|\b\w+\s+et\s+al\.`
	whitespaceRegexPattern = `\s+`
)

// Placeholder formats used while protecting tokens from the cleanup steps.
// The index is letter-encoded so the number spelling step cannot touch it.
const (
	urlPlaceholderPattern   = `__URL_TOKEN_%s__`
	emailPlaceholderPattern = `__EMAIL_TOKEN_%s__`
)

// Normalizer cleans text for synthesis. Create one with NewNormalizer and
// reuse it; the regex patterns are compiled once.
type Normalizer struct {
	urlPattern           *regexp.Regexp
	emailPattern         *regexp.Regexp
	numberPattern        *regexp.Regexp
	referencePattern     *regexp.Regexp
	citationPattern      *regexp.Regexp
	whitespacePattern    *regexp.Regexp
	abbreviationReplacer *strings.Replacer
	punctuationReplacer  *strings.Replacer
}

// NewNormalizer creates a normalizer with all patterns compiled.
func NewNormalizer() *Normalizer {
	abbreviations := []string{
		"Mr.", "Mister",
		"Mrs.", "Misses",
		"Ms.", "Miss",
		"Dr.", "Doctor",
		"St.", "Saint",
		"Co.", "Company",
		"Ltd.", "Limited",
		"Corp.", "Corporation",
		"Inc.", "Incorporated",
	}

	punctuation := []string{
		"—", "-", // em dash
		"–", "-", // en dash
		"‒", "-", // figure dash
		"…", "...",
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
	}

	return &Normalizer{
		urlPattern:           regexp.MustCompile(urlRegexPattern),
		emailPattern:         regexp.MustCompile(emailRegexPattern),
		numberPattern:        regexp.MustCompile(numberRegexPattern),
		referencePattern:     regexp.MustCompile(referenceRegexPattern),
		citationPattern:      regexp.MustCompile(citationRegexPattern),
		whitespacePattern:    regexp.MustCompile(whitespaceRegexPattern),
		abbreviationReplacer: strings.NewReplacer(abbreviations...),
		punctuationReplacer:  strings.NewReplacer(punctuation...),
	}
}

// Clean runs the full normalization pipeline. An empty input stays empty.
//
// Reference and citation removal runs before number spelling, while their
// digit patterns still match; punctuation smoothing runs before the
// protected tokens are restored, so URLs keep their separators.
func (n *Normalizer) Clean(text string) string {
	if text == "" {
		return text
	}

	cleaned := n.abbreviationReplacer.Replace(text)
	cleaned = n.referencePattern.ReplaceAllString(cleaned, "")
	cleaned = n.citationPattern.ReplaceAllString(cleaned, "")

	cleaned, placeholders := n.protectTokens(cleaned)

	cleaned = n.spellOutNumbers(cleaned)
	cleaned = strings.TrimSpace(n.whitespacePattern.ReplaceAllString(cleaned, " "))
	cleaned = collapsePunctuation(cleaned)
	cleaned = n.punctuationReplacer.Replace(cleaned)

	cleaned = restoreTokens(cleaned, placeholders)

	return ensureSentenceEnding(cleaned)
}

// spellOutNumbers converts every integer in range to its English words.
func (n *Normalizer) spellOutNumbers(text string) string {
	return n.numberPattern.ReplaceAllStringFunc(text, func(match string) string {
		num, err := strconv.Atoi(match)
		if err != nil {
			return match
		}

		return integerToWords(num)
	})
}

// protectTokens swaps URLs and emails for placeholders so the cleanup steps
// cannot corrupt them. Each occurrence gets its own placeholder.
func (n *Normalizer) protectTokens(text string) (string, map[string]string) {
	placeholders := make(map[string]string)
	counter := 0

	protect := func(pattern *regexp.Regexp, format string) {
		text = pattern.ReplaceAllStringFunc(text, func(match string) string {
			placeholder := fmt.Sprintf(format, letterIndex(counter))
			placeholders[placeholder] = match
			counter++

			return placeholder
		})
	}

	protect(n.urlPattern, urlPlaceholderPattern)
	protect(n.emailPattern, emailPlaceholderPattern)

	return text, placeholders
}

// restoreTokens puts the protected tokens back.
func restoreTokens(text string, placeholders map[string]string) string {
	for placeholder, original := range placeholders {
		text = strings.ReplaceAll(text, placeholder, original)
	}

	return text
}

// letterIndex encodes a counter as uppercase letters so placeholders stay
// free of digits.
func letterIndex(counter int) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	encoded := ""

	for {
		encoded = string(alphabet[counter%len(alphabet)]) + encoded

		counter = counter/len(alphabet) - 1
		if counter < 0 {
			return encoded
		}
	}
}

// collapsePunctuation drops immediately repeated punctuation marks.
// Underscores are exempt so the token placeholders survive.
func collapsePunctuation(text string) string {
	var (
		result       []rune
		lastWasPunct bool
	)

	for _, char := range text {
		isPunct := unicode.IsPunct(char) && char != '_'
		if !isPunct || !lastWasPunct {
			result = append(result, char)
		}

		lastWasPunct = isPunct
	}

	return string(result)
}

// ensureSentenceEnding terminates the text with sentence punctuation so the
// synthesis prosody does not trail off.
func ensureSentenceEnding(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	lastChar, _ := utf8.DecodeLastRuneInString(trimmed)

	switch lastChar {
	case '.', '!', '?':
		return trimmed
	default:
		if unicode.IsPunct(lastChar) {
			return trimmed
		}

		return trimmed + "."
	}
}

// numberConverter spells out integers up to MaxNumberForWords.
type numberConverter struct {
	ones  []string
	teens []string
	tens  []string
}

func newNumberConverter() *numberConverter {
	return &numberConverter{
		ones: []string{
			"", "one", "two", "three", "four", "five",
			"six", "seven", "eight", "nine",
		},
		teens: []string{
			"ten", "eleven", "twelve", "thirteen", "fourteen",
			"fifteen", "sixteen", "seventeen", "eighteen", "nineteen",
		},
		tens: []string{
			"", "", "twenty", "thirty", "forty", "fifty",
			"sixty", "seventy", "eighty", "ninety",
		},
	}
}

func (nc *numberConverter) convertUnderHundred(num int) string {
	if num < numberBaseTen {
		return nc.ones[num]
	}

	if num < numberBaseTwenty {
		return nc.teens[num-numberBaseTen]
	}

	result := nc.tens[num/numberBaseTen]
	if num%numberBaseTen > 0 {
		result += " " + nc.ones[num%numberBaseTen]
	}

	return result
}

func (nc *numberConverter) convertUnderThousand(num int) string {
	if num < numberBaseHundred {
		return nc.convertUnderHundred(num)
	}

	result := nc.ones[num/numberBaseHundred] + " hundred"

	remainder := num % numberBaseHundred
	if remainder > 0 {
		result += " " + nc.convertUnderHundred(remainder)
	}

	return result
}

func integerToWords(number int) string {
	if number < 0 || number > MaxNumberForWords {
		return strconv.Itoa(number)
	}

	if number == 0 {
		return "zero"
	}

	converter := newNumberConverter()

	var parts []string

	thousands := number / numberBaseThousand
	if thousands > 0 {
		parts = append(parts, converter.convertUnderThousand(thousands)+" thousand")
	}

	remainder := number % numberBaseThousand
	if remainder > 0 {
		parts = append(parts, converter.convertUnderThousand(remainder))
	}

	return strings.Join(parts, " ")
}
