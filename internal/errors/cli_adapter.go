package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Exit codes returned by the CLI for classified errors.
const (
	ExitOK       = 0
	ExitGeneral  = 1
	ExitUsage    = 2
	ExitConfig   = 7
	ExitExternal = 8
	ExitInternal = 10
	ExitBuild    = 11
	ExitRuntime  = 12
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
		exit:    os.Exit,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}

	if de, ok := As(err); ok {
		return a.exitCodeFromDistError(de)
	}

	return ExitGeneral
}

// exitCodeFromDistError maps DistError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromDistError(err *DistError) int {
	switch err.Category {
	case CategoryValidation:
		return ExitUsage
	case CategoryConfig:
		return ExitConfig
	case CategoryNetwork:
		return ExitExternal
	case CategoryBuild, CategoryFileSystem, CategoryArchive:
		return ExitBuild
	case CategoryRuntime:
		return ExitRuntime
	case CategoryInternal:
		return ExitInternal
	default:
		return ExitGeneral
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if de, ok := As(err); ok {
		return a.formatDistError(de)
	}

	return fmt.Sprintf("Error: %v", err)
}

// formatDistError formats a DistError for display.
func (a *CLIErrorAdapter) formatDistError(err *DistError) string {
	if a.verbose {
		return err.Error()
	}

	switch err.Category {
	case CategoryConfig, CategoryValidation:
		return err.Message
	default:
		if err.Cause != nil {
			return fmt.Sprintf("%s: %s: %v", err.Category, err.Message, err.Cause)
		}
		return fmt.Sprintf("%s: %s", err.Category, err.Message)
	}
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	if a.shouldLog(err) {
		a.logError(err)
	}

	fmt.Fprintf(a.out, "%s\n", message)
	a.exit(exitCode)
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	if de, ok := As(err); ok {
		return de.Category == CategoryInternal ||
			de.Category == CategoryRuntime ||
			de.Severity == SeverityFatal
	}

	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	if de, ok := As(err); ok {
		level := a.slogLevelFromSeverity(de.Severity)
		attrs := []slog.Attr{
			slog.String("category", string(de.Category)),
		}
		for k, v := range de.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
		if de.Retryable {
			attrs = append(attrs, slog.Bool("retryable", true))
		}

		a.logger.LogAttrs(context.Background(), level, de.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

// slogLevelFromSeverity converts DistError severity to slog level.
func (a *CLIErrorAdapter) slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
