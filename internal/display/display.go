/*
Package display renders evaluation results for humans.

Results may be printed with the digit grouping of the user's locale, e.g.
"479,001,600" for en-US or "479.001.600" for de-DE. The locale is detected
from the environment (LC_ALL, LANG, …) unless given explicitly.
*/
package display

import (
	"strconv"

	jj "github.com/cloudfoundry/jibber_jabber"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// T traces to the core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// DefaultLocale is used if the user's locale cannot be detected.
const DefaultLocale = "en-US"

// Formatter formats integer results.
type Formatter struct {
	Locale   string       // IETF locale string
	Tag      language.Tag // language tag derived from Locale
	Grouping bool         // use locale specific digit grouping
	printer  *message.Printer
}

// FromEnvironment creates a formatter for the locale of the user.
func FromEnvironment(grouping bool) *Formatter {
	userLocale, err := jj.DetectIETF()
	if err != nil {
		T().Errorf("display: %v", err)
		userLocale = DefaultLocale
		T().Infof("display sets default user locale %v", userLocale)
	} else {
		T().Infof("display detected user locale %v", userLocale)
	}
	return ForLocale(userLocale, grouping)
}

// ForLocale creates a formatter for an IETF locale string like "de-CH".
// Unknown locales fall back to DefaultLocale.
func ForLocale(locale string, grouping bool) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		T().Errorf("display: cannot parse locale %q: %v", locale, err)
		locale = DefaultLocale
		tag = language.AmericanEnglish
	}
	return &Formatter{
		Locale:   locale,
		Tag:      tag,
		Grouping: grouping,
		printer:  message.NewPrinter(tag),
	}
}

// Format returns the decimal representation of n.
func (f *Formatter) Format(n int) string {
	if f == nil || !f.Grouping {
		return strconv.Itoa(n)
	}
	return f.printer.Sprintf("%d", n)
}
