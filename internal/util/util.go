package util

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone strips every non-digit character and restores the leading
// zero that spreadsheets commonly drop from Vietnamese numbers.
func NormalizePhone(phone string) string {
	digits := nonDigits.ReplaceAllString(phone, "")
	if len(digits) == 9 {
		return "0" + digits
	}

	return digits
}

// IsValidPhone reports whether a normalized phone looks like a Vietnamese
// subscriber number.
func IsValidPhone(phone string) bool {
	if len(phone) < 10 || len(phone) > 11 {
		return false
	}

	return strings.HasPrefix(phone, "0")
}

// RemoveAccents folds Vietnamese diacritics to their ASCII base letters.
// "Nguyễn Văn Tèo" becomes "Nguyen Van Teo".
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}

	// The combining-mark fold leaves đ/Đ untouched.
	out = strings.ReplaceAll(out, "đ", "d")
	out = strings.ReplaceAll(out, "Đ", "D")

	return out
}

// NormalizeName lowercases, strips accents and collapses whitespace so that
// free-text rep names can be compared across data sources.
func NormalizeName(s string) string {
	folded := strings.ToLower(RemoveAccents(s))

	return strings.Join(strings.Fields(folded), " ")
}

// NamesMatch reports whether two free-text person names refer to the same
// person after accent folding. A name also matches when one side is a
// suffix of the other, which covers "Tèo" against "Nguyễn Văn Tèo".
func NamesMatch(a, b string) bool {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}

	return strings.HasSuffix(na, " "+nb) || strings.HasSuffix(nb, " "+na)
}

// ParseAmount reads a currency amount that may carry thousand separators,
// for example "1.200.000" or "1,200,000".
func ParseAmount(s string) (int64, error) {
	digits := nonDigits.ReplaceAllString(strings.TrimSpace(s), "")
	if digits == "" {
		return 0, fmt.Errorf("amount %q contains no digits", s)
	}

	var amount int64
	for _, r := range digits {
		amount = amount*10 + int64(r-'0')
	}

	return amount, nil
}

// FormatVND renders an amount with dot thousand separators, the way the
// sales team reads money: 1200000 -> "1.200.000 ₫".
func FormatVND(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	s := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	if negative {
		return "-" + b.String() + " ₫"
	}

	return b.String() + " ₫"
}

// SameDay reports whether two instants fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()

	return ay == by && am == bm && ad == bd
}

// StartOfDay truncates an instant to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()

	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
