// error_messages.go defines user-friendly error messages with codes for
// support reference. When users encounter errors, they can quote the error
// code to support staff for faster diagnosis.
//
// Error codes are grouped by category:
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Unreadable source: A file or sheet could not be parsed
//	         Action: Check that the file is a valid CSV or Excel workbook
//	         Patterns: "unreadable source", "parse error"
//
//	SRC002 - Unclassifiable source: No row types could be determined
//	         Action: Check that rows start with 100/200/300/400/900 codes
//	         Patterns: "could not be classified"
//
//	SRC003 - Empty source: Source produced no rows after assembly
//	         Action: Remove empty sheets from the workbook
//	         Patterns: "empty assembly"
//
// # Generation Errors (GEN001-GEN099)
//
//	GEN001 - No valid sources: Every submitted source was skipped
//	         Action: Review the diagnostics for per-source reasons
//	         Patterns: "no valid sources"
//
//	GEN002 - Ordering failed: Rows could not be canonically ordered
//	         Action: The block was kept in submitted order; review the output
//	         Patterns: "canonical ordering failed"
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - Run not found: The run ID is unknown or has expired
//	         Action: Start a new generation run
//	         Patterns: "run not found"
//
//	RUN002 - System busy: Too many runs in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many concurrent runs"
//
//	RUN003 - Request cancelled: The run was cancelled
//	         Action: Start a new run when ready
//	         Patterns: "context canceled"
//
//	RUN004 - Request timeout: The run timed out
//	         Action: Try a smaller file or check your connection
//	         Patterns: "context deadline exceeded", "timeout"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum size limit
//	          Action: Split the file into smaller parts
//	          Patterns: "file too large"
//
//	FILE002 - Unsupported type: File extension is not supported
//	          Action: Upload a .csv, .xlsx, or .xlsm file
//	          Patterns: "unsupported file type"
//
//	FILE003 - No file: No file was selected
//	          Action: Please select at least one file
//	          Patterns: "no file provided"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Patterns are matched using strings.Contains, so partial matches work. The
// first matching pattern wins: more specific patterns come before general ones.
var errorPatterns = []errorPattern{
	// Source errors (SRC001-SRC003)
	{
		pattern: "unreadable source",
		msg: UserMessage{
			Message: "A file or sheet could not be parsed",
			Action:  "Check that the file is a valid CSV or Excel workbook",
			Code:    "SRC001",
		},
	},
	{
		pattern: "parse error",
		msg: UserMessage{
			Message: "A file or sheet could not be parsed",
			Action:  "Check that the file is a valid CSV or Excel workbook",
			Code:    "SRC001",
		},
	},
	{
		pattern: "could not be classified",
		msg: UserMessage{
			Message: "No row types could be determined for a source",
			Action:  "Check that rows start with 100/200/300/400/900 codes",
			Code:    "SRC002",
		},
	},
	{
		pattern: "empty assembly",
		msg: UserMessage{
			Message: "A source produced no rows",
			Action:  "Remove empty sheets from the workbook",
			Code:    "SRC003",
		},
	},

	// Generation errors (GEN001-GEN002)
	{
		pattern: "no valid sources",
		msg: UserMessage{
			Message: "Every submitted source was skipped",
			Action:  "Review the diagnostics for per-source reasons",
			Code:    "GEN001",
		},
	},
	{
		pattern: "canonical ordering failed",
		msg: UserMessage{
			Message: "Rows could not be canonically ordered",
			Action:  "The block was kept in submitted order; review the output",
			Code:    "GEN002",
		},
	},

	// Run errors (RUN001-RUN004)
	{
		pattern: "run not found",
		msg: UserMessage{
			Message: "Run not found",
			Action:  "The run may have expired. Please start a new run",
			Code:    "RUN001",
		},
	},
	{
		pattern: "too many concurrent runs",
		msg: UserMessage{
			Message: "System is busy processing other runs",
			Action:  "Please wait a moment and try again",
			Code:    "RUN002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "RUN003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "RUN004",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "RUN004",
		},
	},

	// File errors (FILE001-FILE003)
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller parts",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "File extension is not supported",
			Action:  "Upload a .csv, .xlsx, or .xlsm file",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select at least one file",
			Code:    "FILE003",
		},
	},

	// Rate limiting (RATE001)
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// Support staff should check application logs for the original technical
// error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether an error matches a known pattern and should be
// shown to users as-is, rather than falling back to the generic ERR000 text.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean
// message for display.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a
// user-friendly message. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
