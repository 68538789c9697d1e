package session

import "strings"

// Messages holds the user-facing strings produced by the game.
type Messages struct {
	FetchFailed string
	Correct     string
	Incorrect   string
	Completed   string
}

var catalog = map[string]Messages{
	"en": {
		FetchFailed: "Could not reach the literary archives. Please try again.",
		Correct:     "Correct!",
		Incorrect:   "Not quite.",
		Completed:   "You have uncovered every work in the archive.",
	},
	"ru": {
		FetchFailed: "Не удалось связаться с литературными архивами. Пожалуйста, попробуйте снова.",
		Correct:     "Верно!",
		Incorrect:   "Неверно.",
		Completed:   "Вы раскрыли все произведения архива.",
	},
}

// MessagesFor returns the strings for locale ("ru", "ru-RU", "en_US"),
// falling back to English.
func MessagesFor(locale string) Messages {
	lang := strings.ToLower(locale)
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	if m, ok := catalog[lang]; ok {
		return m
	}
	return catalog["en"]
}
