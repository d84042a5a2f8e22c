package service

import (
	"regexp"
	"strings"
)

// Country prefixes the funnel actually sees, checked in order. Anything
// else with a leading + falls through to the generic pattern.
var knownPhonePrefixes = []string{"+39", "+1", "+44", "+49", "+33", "+34", "+41"}

var genericPhonePrefix = regexp.MustCompile(`^\+\d{1,3}`)

// StripPhonePrefix removes a recognized international prefix from phone.
// Numbers without a leading + are returned unchanged. The result is a
// cosmetic derived field; the raw number is always kept alongside it.
func StripPhonePrefix(phone string) string {
	for _, prefix := range knownPhonePrefixes {
		if strings.HasPrefix(phone, prefix) {
			return phone[len(prefix):]
		}
	}
	if strings.HasPrefix(phone, "+") {
		return genericPhonePrefix.ReplaceAllString(phone, "")
	}
	return phone
}
