// internal/bc125/tone.go
package bc125

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CTCSS/DCS tone squelch codes. The scanner identifies a tone by a small
// integer on the wire; operators know them by the CTCSS frequency (e.g.
// "127.3") or the DCS code (e.g. "D023N"). The mapping is a bijection over
// the defined code set and codes outside it are rejected, never clamped.

// Special tone labels.
const (
	ToneNone   = "NONE"
	ToneSearch = "SEARCH"
	ToneOff    = "NO_TONE"
)

// Special wire codes.
const (
	toneCodeNone   = 0
	toneCodeSearch = 127
	toneCodeOff    = 240
)

// CTCSS frequencies in wire-code order, starting at code 64.
var ctcssLabels = []string{
	"67.0", "69.3", "71.9", "74.4", "77.0", "79.7", "82.5", "85.4",
	"88.5", "91.5", "94.8", "97.4", "100.0", "103.5", "107.2", "110.9",
	"114.8", "118.8", "123.0", "127.3", "131.8", "136.5", "141.3", "146.2",
	"151.4", "156.7", "159.8", "162.2", "165.5", "167.9", "171.3", "173.8",
	"177.3", "179.9", "183.5", "186.2", "189.9", "192.8", "196.6", "199.5",
	"203.5", "206.5", "210.7", "218.1", "225.7", "229.1", "233.6", "241.8",
	"250.3", "254.1",
}

// DCS codes in wire-code order, starting at code 128.
var dcsCodes = []int{
	23, 25, 26, 31, 32, 36, 43, 47, 51, 53, 54, 65, 71, 72, 73, 74,
	114, 115, 116, 122, 125, 131, 132, 134, 143, 145, 152, 155, 156, 162,
	165, 172, 174, 205, 212, 223, 225, 226, 243, 244, 245, 246, 251, 252,
	255, 261, 263, 265, 266, 271, 274, 306, 311, 315, 325, 331, 332, 343,
	346, 351, 356, 364, 365, 371, 411, 412, 413, 423, 431, 432, 445, 446,
	452, 454, 455, 462, 464, 465, 466, 503, 506, 516, 523, 526, 532, 546,
	565, 606, 612, 624, 627, 631, 632, 654, 662, 664, 703, 712, 723, 731,
	732, 734, 743, 754,
}

const (
	ctcssBase = 64
	dcsBase   = 128
)

var (
	labelByCode map[int]string
	codeByLabel map[string]int
)

func init() {
	labelByCode = make(map[int]string, len(ctcssLabels)+len(dcsCodes)+3)
	labelByCode[toneCodeNone] = ToneNone
	labelByCode[toneCodeSearch] = ToneSearch
	labelByCode[toneCodeOff] = ToneOff

	for i, freq := range ctcssLabels {
		labelByCode[ctcssBase+i] = freq
	}
	for i, code := range dcsCodes {
		labelByCode[dcsBase+i] = fmt.Sprintf("D%03dN", code)
	}

	codeByLabel = make(map[string]int, len(labelByCode))
	for code, label := range labelByCode {
		codeByLabel[strings.ToUpper(label)] = code
	}
}

// ToneLabel returns the canonical label for a wire code.
func ToneLabel(code int) (string, error) {
	label, ok := labelByCode[code]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrInvalidToneCode, code)
	}
	return label, nil
}

// ToneCode returns the wire code for a label. Matching is a
// case-insensitive exact match against the canonical label set.
func ToneCode(label string) (int, error) {
	code, ok := codeByLabel[strings.ToUpper(strings.TrimSpace(label))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownToneLabel, label)
	}
	return code, nil
}

// ParseTone accepts either a canonical label or, for compatibility with
// old save files, a raw decimal wire code. The numeric path performs the
// same table-membership check as the label path; an out-of-range integer
// is an error, not a passthrough.
func ParseTone(s string) (int, error) {
	if code, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		if !ValidToneCode(code) {
			return 0, fmt.Errorf("%w: %d", ErrInvalidToneCode, code)
		}
		return code, nil
	}
	return ToneCode(s)
}

// ValidToneCode reports whether a wire code is in the tone table.
func ValidToneCode(code int) bool {
	_, ok := labelByCode[code]
	return ok
}

// ToneCodes returns every defined wire code in ascending order.
func ToneCodes() []int {
	codes := make([]int, 0, len(labelByCode))
	for code := range labelByCode {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}
