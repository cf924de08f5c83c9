package goloc

// Locale describes one supported language: its code as used in URLs and
// dictionary keys, and the native display name shown in the language
// selector.
type Locale struct {
	Code string
	Name string
}

// Locales is the fixed, ordered set of supported locales. The first entry is
// the default locale.
var Locales = []Locale{
	{"en", "English"},
	{"fr", "Français"},
	{"ja", "日本語"},
	{"ko", "한국어"},
	{"es", "Español"},
	{"de", "Deutsch"},
	{"zh-cn", "简体中文"},
	{"zh-hk", "繁體中文（香港）"},
	{"pt", "Português"},
	{"ar", "العربية"},
}

// DefaultLocale is the unmarked/canonical locale. Its text is assumed to
// already be the source text and is never translated.
const DefaultLocale = "en"

// rtlLocales contains supported locales written right to left.
var rtlLocales = map[string]bool{
	"ar": true,
}

// IsSupported reports whether code names a supported locale.
func IsSupported(code string) bool {
	for _, l := range Locales {
		if l.Code == code {
			return true
		}
	}
	return false
}

// LocaleCodes returns the supported locale codes in their fixed order.
func LocaleCodes() []string {
	codes := make([]string, len(Locales))
	for i, l := range Locales {
		codes[i] = l.Code
	}
	return codes
}

// DisplayName returns the native display name for a locale code.
// Falls back to the code itself if not found.
func DisplayName(code string) string {
	for _, l := range Locales {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}

// Direction returns "rtl" for right-to-left locales, "ltr" otherwise.
func Direction(code string) string {
	if rtlLocales[code] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the locale uses right-to-left text direction.
func IsRTL(code string) bool {
	return Direction(code) == "rtl"
}
