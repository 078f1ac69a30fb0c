// Package errors formats failures for the terminal.
package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/timebox/internal/logger"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...any) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Severity says how a notice is presented.
type Severity int

const (
	// SeverityInfo is a neutral status line.
	SeverityInfo Severity = iota
	// SeverityBlocking must be dismissed before work continues.
	SeverityBlocking
)

// Notice is a user-facing message derived from an error.
type Notice struct {
	Severity Severity
	Message  string
}

// Classifier maps an error to a notice. It returns false when it does not
// recognize err.
type Classifier func(err error) (Notice, bool)

// NoticeFor turns err into a notice, trying each classifier in order. Errors
// no classifier recognizes become blocking notices.
func NoticeFor(action string, err error, classifiers ...Classifier) Notice {
	if err == nil {
		return Notice{}
	}
	for _, c := range classifiers {
		if n, ok := c(err); ok {
			return n
		}
	}
	return Notice{Severity: SeverityBlocking, Message: fmt.Sprintf("%s failed: %v", action, err)}
}

// Match returns a classifier that reports msg at sev when err wraps target.
func Match(target error, sev Severity, msg string) Classifier {
	return func(err error) (Notice, bool) {
		if stderrors.Is(err, target) {
			return Notice{Severity: sev, Message: msg}, true
		}
		return Notice{}, false
	}
}
