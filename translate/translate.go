// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package translate formats user-visible messages for the
// locale of the current user.
package translate

import (
	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	printer = newPrinter(locale.GetLocales())
}

// newPrinter returns a printer for the best match among locales.
// Without a usable locale it falls back to en-US.
func newPrinter(locales []string, err error) *message.Printer {
	if err != nil || len(locales) == 0 {
		locales = []string{"en-US"}
	}
	return message.NewPrinter(message.MatchLanguage(locales...))
}

// From formats an en-US Sprintf format for the user's locale.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
