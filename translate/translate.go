// Package translate formats the host's user-facing messages with a printer
// chosen from the user's locale. Messages are written as en-US format
// strings, which also serve as the lookup keys for translations.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

const fallbackLocale = "en-US"

var printer = newPrinter()

func newPrinter() *message.Printer {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("steprules: locale: %v", err)
	}
	if len(locales) == 0 {
		locales = []string{fallbackLocale}
	}
	return message.NewPrinter(message.MatchLanguage(locales...))
}

// From formats a message for the user's locale. The key is an en-US
// Sprintf format.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
