package sanitizer

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// rePhoneLike accepts digits with the usual separators; anything else (a name,
// "call the lodge") is treated as free text.
var rePhoneLike = regexp.MustCompile(`^\+?[0-9\s\-().]{7,20}$`)

// NormalizePhone returns the E.164 form of phone, parsing numbers without a
// country code in defaultRegion. It returns "" when phone is not a valid
// number.
func NormalizePhone(phone, defaultRegion string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" || !rePhoneLike.MatchString(phone) {
		return ""
	}

	parsed, err := phonenumbers.Parse(phone, strings.ToUpper(defaultRegion))
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return ""
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

// NormalizeContact normalizes an emergency contact. Values that parse as a
// phone number become E.164; anything else is kept as normalized text.
func NormalizeContact(contact, defaultRegion string) string {
	if e164 := NormalizePhone(contact, defaultRegion); e164 != "" {
		return e164
	}
	return TrimAndNormalize(contact)
}
