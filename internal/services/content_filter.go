package services

import "regexp"

var bannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
	"scam", "scammer", "phishing", "malware",
}

const (
	rejectLanguage    = "inappropriate_language"
	rejectContactInfo = "contact_info_not_allowed"
	rejectSpam        = "spam_detected"
	rejectCaps        = "excessive_caps"
)

var rejectionMessages = map[string]string{
	rejectLanguage:    "Your review contains inappropriate language.",
	rejectContactInfo: "Contact information is not allowed in reviews.",
	rejectSpam:        "Your review appears to be spam.",
	rejectCaps:        "Please avoid using excessive capital letters.",
}

// ContentFilter screens free text submitted by users. Links are allowed since
// reviews routinely mention product pages.
type ContentFilter struct {
	bannedWordRegexps []*regexp.Regexp
	emailPattern      *regexp.Regexp
	phonePattern      *regexp.Regexp
	allCapsPattern    *regexp.Regexp
}

func NewContentFilter() *ContentFilter {
	f := &ContentFilter{
		bannedWordRegexps: make([]*regexp.Regexp, 0, len(bannedWords)),
		emailPattern:      regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		phonePattern:      regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`),
		allCapsPattern:    regexp.MustCompile(`\b[A-Z]{5,}\b`),
	}
	for _, word := range bannedWords {
		f.bannedWordRegexps = append(f.bannedWordRegexps, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return f
}

// Check returns ok=false and a reason code when text must be rejected.
func (f *ContentFilter) Check(text string) (bool, string) {
	if text == "" {
		return true, ""
	}
	for _, re := range f.bannedWordRegexps {
		if re.MatchString(text) {
			return false, rejectLanguage
		}
	}
	if f.emailPattern.MatchString(text) || f.phonePattern.MatchString(text) {
		return false, rejectContactInfo
	}
	if hasRun(text, 5) {
		return false, rejectSpam
	}
	if len(f.allCapsPattern.FindAllString(text, -1)) > 2 {
		return false, rejectCaps
	}
	return true, ""
}

func (f *ContentFilter) RejectionMessage(reason string) string {
	if msg, ok := rejectionMessages[reason]; ok {
		return msg
	}
	return "Your review does not meet our content guidelines."
}

// hasRun reports whether any letter or punctuation mark repeats n or more
// times in a row.
func hasRun(text string, n int) bool {
	var prev rune
	count := 0
	for _, r := range text {
		if r == prev && !isDigitOrSpace(r) {
			count++
			if count >= n {
				return true
			}
			continue
		}
		prev = r
		count = 1
	}
	return false
}

func isDigitOrSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || (r >= '0' && r <= '9')
}
