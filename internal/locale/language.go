package locale

import "strings"

// languageRule maps a locale condition to substrings of the vendor's
// English language display names. exact locales win over prefix rules so
// that "pt-BR" picks Brazilian Portuguese while "pt-PT" picks Portuguese.
type languageRule struct {
	prefix string   // locale prefix, lower case; empty means exact only
	exact  string   // full locale, lower case; empty means prefix only
	all    []string // every substring must appear in the language name
	is     string   // language name must equal this exactly (lower case)
	not    string   // locale must not equal this (guards prefix rules)
}

var languageRules = []languageRule{
	{prefix: "ar", all: []string{"arabic"}},
	{exact: "pt-br", all: []string{"brazil"}},
	{prefix: "bg", all: []string{"bulgar"}},
	{exact: "zh-cn", all: []string{"chinese", "simp"}},
	{exact: "zh-tw", all: []string{"chinese", "trad"}},
	{prefix: "hr", all: []string{"croat"}},
	{prefix: "cs", all: []string{"czech"}},
	{prefix: "da", all: []string{"danish"}},
	{prefix: "nl", all: []string{"dutch"}},
	{exact: "en-us", is: "english"},
	{prefix: "en", all: []string{"english", "inter"}},
	{prefix: "en", all: []string{"english", "kingdom"}},
	{prefix: "et", all: []string{"eston"}},
	{prefix: "fi", all: []string{"finn"}},
	{exact: "fr-ca", all: []string{"french", "canad"}},
	{prefix: "fr", is: "french"},
	{prefix: "de", all: []string{"german"}},
	{prefix: "el", all: []string{"greek"}},
	{prefix: "he", all: []string{"hebrew"}},
	{prefix: "hu", all: []string{"hungar"}},
	{prefix: "id", all: []string{"indones"}},
	{prefix: "it", all: []string{"italia"}},
	{prefix: "ja", all: []string{"japan"}},
	{prefix: "ko", all: []string{"korea"}},
	{prefix: "lv", all: []string{"latvia"}},
	{prefix: "lt", all: []string{"lithuania"}},
	{prefix: "ms", all: []string{"malay"}},
	{prefix: "nb", all: []string{"norw"}},
	{prefix: "fa", all: []string{"persia"}},
	{prefix: "pl", all: []string{"polish"}},
	{exact: "pt-pt", is: "portuguese"},
	{prefix: "ro", all: []string{"romania"}},
	{prefix: "ru", all: []string{"russia"}},
	{prefix: "sr", all: []string{"serbia"}},
	{prefix: "sk", all: []string{"slovak"}},
	{prefix: "sl", all: []string{"slovenia"}},
	{exact: "es-es", is: "spanish"},
	{prefix: "es", all: []string{"spanish"}, not: "es-es"},
	{prefix: "sv", all: []string{"swed"}},
	{prefix: "th", all: []string{"thai"}},
	{prefix: "tr", all: []string{"turk"}},
	{prefix: "uk", all: []string{"ukrain"}},
	{prefix: "vi", all: []string{"vietnam"}},
}

// MatchesLanguage reports whether the vendor's language display name is
// the natural pick for the given locale. Used to default an unspecified
// language to the system locale before falling back to English.
func MatchesLanguage(languageName, locale string) bool {
	loc := strings.ToLower(locale)
	lang := strings.ToLower(languageName)

	for _, r := range languageRules {
		if r.exact != "" && loc != r.exact {
			continue
		}
		if r.exact == "" {
			if !strings.HasPrefix(loc, r.prefix) {
				continue
			}
			if r.not != "" && loc == r.not {
				continue
			}
		}
		if r.is != "" {
			if lang == r.is {
				return true
			}
			continue
		}
		matched := true
		for _, sub := range r.all {
			if !strings.Contains(lang, sub) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}
