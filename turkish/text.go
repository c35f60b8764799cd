/*
Package turkish holds locale helpers shared by the forms and the engine:
casing, national-identity/phone/email validation, and business-day
arithmetic with a holiday calendar.

CASING:
  Turkish has the dotted/dotless I pair. strings.ToUpper maps "i" to "I",
  which is wrong here ("i" must become "İ"). Upper uses the x/text Turkish
  caser so search keys and display names match what the sheets hold.

VALIDATORS:
  Each validator returns (ok, message). On success the message is the
  normalized form (e.g. lowercased e-mail); on failure it is the specific
  Turkish field message the notification layer shows verbatim.
*/
package turkish

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upperCaser = cases.Upper(language.Turkish)

// Upper upper-cases s with Turkish casing rules (i -> İ, ı -> I).
func Upper(s string) string {
	return upperCaser.String(s)
}

// =============================================================================
// NATIONAL IDENTITY NUMBER (T.C. Kimlik No)
// =============================================================================

// ValidateTCKN checks the 11-digit national identity number:
// all digits, first digit nonzero, and both checksum digits per the
// official algorithm.
func ValidateTCKN(s string) (bool, string) {
	s = strings.TrimSpace(s)
	if len(s) != 11 {
		return false, "T.C. kimlik numarası 11 haneli olmalıdır."
	}
	var d [11]int
	for i, r := range s {
		if r < '0' || r > '9' {
			return false, "T.C. kimlik numarası yalnızca rakamlardan oluşmalıdır."
		}
		d[i] = int(r - '0')
	}
	if d[0] == 0 {
		return false, "T.C. kimlik numarası 0 ile başlayamaz."
	}

	odd := d[0] + d[2] + d[4] + d[6] + d[8]
	even := d[1] + d[3] + d[5] + d[7]
	check10 := ((odd * 7) - even) % 10
	if check10 < 0 {
		check10 += 10
	}
	if check10 != d[9] {
		return false, "T.C. kimlik numarası geçersiz."
	}

	sum := 0
	for i := 0; i < 10; i++ {
		sum += d[i]
	}
	if sum%10 != d[10] {
		return false, "T.C. kimlik numarası geçersiz."
	}

	return true, s
}

// =============================================================================
// PHONE
// =============================================================================

// Mobile operator prefixes as assigned at build time. Regulator changes
// require a release; see the phone prefix note in DESIGN.md.
var mobilePrefixes = map[string]bool{
	"501": true, "502": true, "503": true, "504": true, "505": true,
	"506": true, "507": true, "508": true, "509": true,
	"530": true, "531": true, "532": true, "533": true, "534": true,
	"535": true, "536": true, "537": true, "538": true, "539": true,
	"540": true, "541": true, "542": true, "543": true, "544": true,
	"545": true, "546": true, "547": true, "548": true, "549": true,
	"550": true, "551": true, "552": true, "553": true, "554": true,
	"555": true, "556": true, "557": true, "558": true, "559": true,
}

var nonDigit = regexp.MustCompile(`\D`)

// ValidatePhone accepts 10 or 11 digit Turkish mobile numbers and returns
// the normalized 11-digit form (leading 0).
func ValidatePhone(s string) (bool, string) {
	digits := nonDigit.ReplaceAllString(s, "")

	switch len(digits) {
	case 10:
		digits = "0" + digits
	case 11:
		if digits[0] != '0' {
			return false, "11 haneli telefon numarası 0 ile başlamalıdır."
		}
	default:
		return false, "Telefon numarası 10 veya 11 haneli olmalıdır."
	}

	if !mobilePrefixes[digits[1:4]] {
		return false, "Telefon numarası geçerli bir operatör koduyla başlamalıdır."
	}
	return true, digits
}

// =============================================================================
// EMAIL
// =============================================================================

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidateEmail checks the address shape and returns the lowercase form.
func ValidateEmail(s string) (bool, string) {
	s = strings.TrimSpace(s)
	if !emailPattern.MatchString(s) {
		return false, "E-posta adresi geçersiz."
	}
	return true, strings.ToLower(s)
}
