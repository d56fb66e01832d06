// Package pix builds and inspects PIX "copia e cola" payloads: EMV
// merchant-presented-mode strings made of tag(2) length(2) value segments,
// terminated by a CRC-16/CCITT-FALSE checksum.
package pix

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	tagPayloadFormat   = "00"
	tagMerchantAccount = "26"
	tagCategoryCode    = "52"
	tagCurrency        = "53"
	tagAmount          = "54"
	tagCountry         = "58"
	tagMerchantName    = "59"
	tagMerchantCity    = "60"
	tagAdditionalData  = "62"
	tagCRC             = "63"

	subGUI         = "00"
	subKey         = "01"
	subDescription = "02"
	subReference   = "05"

	pixDomain        = "br.gov.bcb.pix"
	payloadFormat    = "01"
	categoryCode     = "0000"
	currencyBRL      = "986"
	countryCode      = "BR"
	noReference      = "***"
	maxValueLen      = 99
	maxNameLen       = 25
	maxCityLen       = 15
	maxAmountLen     = 13
	maxReferenceLen  = 25
	crcPlaceholder   = tagCRC + "04"
	crcDigits        = 4
	segmentHeaderLen = 4
)

var (
	ErrMissingField  = errors.New("pix: required field missing")
	ErrInvalidAmount = errors.New("pix: invalid amount")
	ErrFieldTooLong  = errors.New("pix: field exceeds 99 bytes")
	ErrMalformed     = errors.New("pix: malformed payload")
)

// Payload is the input of a static PIX charge.
type Payload struct {
	Amount      decimal.Decimal
	Description string
	Key         string
	Name        string
	City        string
	Reference   string
}

// Build renders the payload. On failure it returns "" and the reason, so callers
// that only check for an empty result keep working.
func (p Payload) Build() (string, error) {
	key := strings.TrimSpace(p.Key)
	name := truncate(asciiFold(p.Name), maxNameLen)
	city := truncate(asciiFold(p.City), maxCityLen)
	if key == "" || name == "" || city == "" {
		return "", fmt.Errorf("%w: key, name and city are required", ErrMissingField)
	}
	// amount is emitted with two decimals, so the check runs on the rounded value
	amount := p.Amount.Round(2)
	if !amount.IsPositive() {
		return "", fmt.Errorf("%w: %s is not positive", ErrInvalidAmount, amount.StringFixed(2))
	}
	if len(amount.StringFixed(2)) > maxAmountLen {
		return "", fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidAmount, amount.StringFixed(2), maxAmountLen)
	}

	account, err := merchantAccount(key, asciiFold(p.Description))
	if err != nil {
		return "", err
	}

	ref := sanitizeReference(p.Reference)
	additional, err := segment(subReference, ref)
	if err != nil {
		return "", err
	}

	var w writer
	w.add(tagPayloadFormat, payloadFormat)
	w.add(tagMerchantAccount, account)
	w.add(tagCategoryCode, categoryCode)
	w.add(tagCurrency, currencyBRL)
	w.add(tagAmount, amount.StringFixed(2))
	w.add(tagCountry, countryCode)
	w.add(tagMerchantName, name)
	w.add(tagMerchantCity, city)
	w.add(tagAdditionalData, additional)
	if w.err != nil {
		return "", w.err
	}

	body := w.String() + crcPlaceholder
	return body + checksumHex(body), nil
}

// description is dropped or shortened when it does not fit next to the key
func merchantAccount(key, description string) (string, error) {
	gui, err := segment(subGUI, pixDomain)
	if err != nil {
		return "", err
	}
	k, err := segment(subKey, key)
	if err != nil {
		return "", err
	}
	account := gui + k
	if len(account) > maxValueLen {
		return "", fmt.Errorf("%w: pix key", ErrFieldTooLong)
	}

	room := maxValueLen - len(account) - segmentHeaderLen
	description = strings.TrimSpace(description)
	if description != "" && room > 0 {
		d, err := segment(subDescription, truncate(description, room))
		if err != nil {
			return "", err
		}
		account += d
	}
	return account, nil
}

type writer struct {
	b   strings.Builder
	err error
}

func (w *writer) add(tag, value string) {
	if w.err != nil {
		return
	}
	s, err := segment(tag, value)
	if err != nil {
		w.err = err
		return
	}
	w.b.WriteString(s)
}

func (w *writer) String() string { return w.b.String() }

func segment(tag, value string) (string, error) {
	if len(value) > maxValueLen {
		return "", fmt.Errorf("%w: tag %s has %d bytes", ErrFieldTooLong, tag, len(value))
	}
	return tag + fmt.Sprintf("%02d", len(value)) + value, nil
}

// Segment is one tag-length-value element of a payload.
type Segment struct {
	Tag   string
	Value string
}

// Parse splits a payload (or the value of a template field such as 26 or 62)
// into its segments.
func Parse(payload string) ([]Segment, error) {
	var out []Segment
	for i := 0; i < len(payload); {
		if len(payload)-i < segmentHeaderLen {
			return nil, fmt.Errorf("%w: truncated header at offset %d", ErrMalformed, i)
		}
		tag := payload[i : i+2]
		n, err := strconv.Atoi(payload[i+2 : i+4])
		if err != nil {
			return nil, fmt.Errorf("%w: bad length at offset %d", ErrMalformed, i+2)
		}
		start := i + segmentHeaderLen
		if start+n > len(payload) {
			return nil, fmt.Errorf("%w: tag %s wants %d bytes, %d left", ErrMalformed, tag, n, len(payload)-start)
		}
		out = append(out, Segment{Tag: tag, Value: payload[start : start+n]})
		i = start + n
	}
	return out, nil
}

// Lookup returns the value of the first segment with the given tag.
func Lookup(segments []Segment, tag string) (string, bool) {
	for _, s := range segments {
		if s.Tag == tag {
			return s.Value, true
		}
	}
	return "", false
}

// VerifyChecksum reports whether the trailing 63 segment matches the payload.
func VerifyChecksum(payload string) bool {
	if len(payload) < len(crcPlaceholder)+crcDigits {
		return false
	}
	split := len(payload) - crcDigits
	if payload[split-len(crcPlaceholder):split] != crcPlaceholder {
		return false
	}
	return strings.EqualFold(payload[split:], checksumHex(payload[:split]))
}

func sanitizeReference(ref string) string {
	var b strings.Builder
	for _, r := range ref {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	out := truncate(b.String(), maxReferenceLen)
	if out == "" {
		return noReference
	}
	return out
}

// asciiFold strips diacritics ("São Paulo" -> "Sao Paulo") and drops anything
// left outside printable ASCII, so byte length equals character count.
func asciiFold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range folded {
		if r >= 0x20 && r < 0x7f {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n])
}
