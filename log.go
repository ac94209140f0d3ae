// log.go - Verbose-gated debug logging

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

import "log"

var verboseLogging bool

// debugf logs only when -verbose is set. Never called from the audio
// thread.
func debugf(format string, args ...interface{}) {
	if verboseLogging {
		log.Printf(format, args...)
	}
}
