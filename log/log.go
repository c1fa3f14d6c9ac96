// Package log adds colour to the uhppoted-lib level tagged logger.
package log

import (
	"fmt"
	syslog "log"

	"github.com/fatih/color"
	lib "github.com/uhppoted/uhppoted-lib/log"
)

var (
	debug = color.New(color.FgCyan).SprintFunc()
	info  = color.New(color.FgBlue).SprintFunc()
	warn  = color.New(color.FgYellow).SprintFunc()
	errs  = color.New(color.FgRed).SprintFunc()
)

func SetDebug(enabled bool) {
	lib.SetDebug(enabled)
}

// SetLogger replaces the underlying logger, e.g. with one writing to a buffer in tests.
func SetLogger(l *syslog.Logger) {
	lib.SetLogger(l)
}

func Debugf(format string, args ...any) {
	lib.Debugf("%v", debug(fmt.Sprintf(format, args...)))
}

func Infof(format string, args ...any) {
	lib.Infof("%v", info(fmt.Sprintf(format, args...)))
}

func Warnf(format string, args ...any) {
	lib.Warnf("%v", warn(fmt.Sprintf(format, args...)))
}

func Errorf(format string, args ...any) {
	lib.Errorf("%v", errs(fmt.Sprintf(format, args...)))
}

// Fatalf logs the error and exits.
func Fatalf(format string, args ...any) {
	lib.Fatalf("%v", errs(fmt.Sprintf(format, args...)))
}
