package domain

import "strings"

// suspiciousWords are matched as substrings against lower-cased text.
var suspiciousWords = []string{
	"bank",
	"banque",
	"iban",
	"transfer",
	"account",
	"deposit",
	"withdraw",
	"transaction",
	"routing number",
	"swift code",
	"sort code",
	"account number",
	"credit card number",
	"cvv",
	"expiration date",
	"pin",
	"password",
	"security question",
	"login",
	"username",
	"identity",
	"ssn",
	"social security number",
	"tax id",
	"passport",
	"driver license",
}

// IsSuspicious reports whether text mentions any banking or credential
// keyword. Matching ignores case.
func IsSuspicious(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, w := range suspiciousWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
