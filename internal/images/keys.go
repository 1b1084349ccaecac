package images

import "strings"

const defaultExtension = "jpg"

// UserPrefix is the key namespace owned by subject. Every key handed to a
// caller starts with it.
func UserPrefix(subject string) string {
	return "users/" + subject + "/"
}

// Owns reports whether key lives in subject's namespace.
func Owns(key, subject string) bool {
	return strings.HasPrefix(key, UserPrefix(subject))
}

// NewKey builds users/{subject}/images/{token}.{ext}.
func NewKey(subject, fileName, token string) string {
	return UserPrefix(subject) + "images/" + token + "." + Extension(fileName)
}

// Extension is the text after the last dot of fileName, case preserved, or
// jpg when there is none. Path separators are neutralized so the suffix can
// never add key segments.
func Extension(fileName string) string {
	i := strings.LastIndex(fileName, ".")
	if i < 0 || i == len(fileName)-1 {
		return defaultExtension
	}
	ext := fileName[i+1:]
	return strings.NewReplacer("/", "_", `\`, "_").Replace(ext)
}
