package core

// error_messages.go maps technical errors to coded messages for CLI output.
// Users quote the code when reporting a problem.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: a row with this key already exists
//	        Patterns: "duplicate key", "unique constraint"
//	DB003 - Connection refused: unable to connect to database
//	        Patterns: "connection refused"
//	DB004 - Database locked: another process holds the SQLite file
//	        Patterns: "database is locked", "sqlite_busy"
//	DB005 - Missing table: schema has not been created
//	        Patterns: "no such table", "does not exist"
//	DB006 - Not found: no stored record has this id
//	        Patterns: "record not found"
//
// # Identifier Errors (ID001-ID099)
//
//	ID001 - Prefix mismatch: id does not start with the race type prefix
//	ID002 - Pattern mismatch: id has the wrong shape
//	ID003 - Out of range: race number or position outside its range
//	ID004 - Unknown race type
//	ID005 - Unknown location
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid date       "invalid date"
//	VAL002 - Invalid number     "invalid number"
//	VAL003 - Required field     "required field", "missing required column"
//	VAL004 - Invalid enum       "invalid enum"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large   "file too large"
//	FILE002 - Encoding error   "encoding error"
//	FILE003 - No such file     "no such file"
//	FILE004 - Is a directory   "is a directory"
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Unknown table     "unknown table"
//	IMP002 - Import timed out  "context deadline exceeded"
//	IMP003 - Import cancelled  "context canceled"
//	IMP004 - System busy       "too many concurrent imports"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the logs for the technical error.
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/racedata/internal/raceid"
	"github.com/JonMunkholm/racedata/internal/racetype"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgDuplicate = UserMessage{
		Message: "A row with this key already exists",
		Action:  "Check the CSV for duplicate ids",
		Code:    "DB001",
	}
	msgLocked = UserMessage{
		Message: "The database is locked by another process",
		Action:  "Wait for the other process to finish or raise DB_BUSY_TIMEOUT",
		Code:    "DB004",
	}
	msgMissingTable = UserMessage{
		Message: "Database schema is missing",
		Action:  "Run \"racedata migrate\" first",
		Code:    "DB005",
	}
	msgPrefix = UserMessage{
		Message: "Identifier does not start with the race type prefix",
		Action:  "Check the race type the id was generated for",
		Code:    "ID001",
	}
	msgPattern = UserMessage{
		Message: "Identifier has the wrong format",
		Action:  "Generate the id with \"racedata id\"",
		Code:    "ID002",
	}
	msgRange = UserMessage{
		Message: "Race number or position is out of range",
		Action:  "Race numbers run 1-12; check the position limit for the race type",
		Code:    "ID003",
	}
	msgRaceType = UserMessage{
		Message: "Unknown race type",
		Action:  "Use one of: JRA, NAR, OVERSEAS, KEIRIN, AUTORACE, BOATRACE",
		Code:    "ID004",
	}
	msgLocation = UserMessage{
		Message: "Unknown location for this race type",
		Action:  "Check the track name spelling",
		Code:    "ID005",
	}
	msgRequired = UserMessage{
		Message: "Required field is empty",
		Action:  "Ensure all required columns have values",
		Code:    "VAL003",
	}
	msgEncoding = UserMessage{
		Message: "File could not be decoded",
		Action:  "Set IMPORT_ENCODING to utf-8 or shift_jis to match the file",
		Code:    "FILE002",
	}
)

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. Order matters.
var errorPatterns = []errorPattern{
	// Database
	{pattern: "duplicate key", msg: msgDuplicate},
	{pattern: "unique constraint", msg: msgDuplicate},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Check DATABASE_URL and that the server is running",
			Code:    "DB003",
		},
	},
	{pattern: "database is locked", msg: msgLocked},
	{pattern: "sqlite_busy", msg: msgLocked},
	{pattern: "no such table", msg: msgMissingTable},
	{pattern: "does not exist", msg: msgMissingTable},
	{
		pattern: "record not found",
		msg: UserMessage{
			Message: "No stored record has this id",
			Action:  "Check the id, or import the file that contains it",
			Code:    "DB006",
		},
	},

	// Identifiers
	{pattern: "prefix mismatch", msg: msgPrefix},
	{pattern: "pattern mismatch", msg: msgPattern},
	{pattern: "out of range", msg: msgRange},
	{pattern: "unknown race type", msg: msgRaceType},
	{pattern: "unknown location", msg: msgLocation},

	// Validation
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "Invalid date format detected",
			Action:  "Use ISO 8601 such as 2025-04-07T15:40:00+09:00 or YYYY-MM-DD",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "Invalid number format detected",
			Action:  "Use plain digits",
			Code:    "VAL002",
		},
	},
	{pattern: "required field", msg: msgRequired},
	{pattern: "missing required column", msg: msgRequired},
	{
		pattern: "invalid enum",
		msg: UserMessage{
			Message: "Value is not in the allowed list",
			Action:  "Check the allowed values for this column",
			Code:    "VAL004",
		},
	},

	// Files
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file or raise IMPORT_MAX_FILE_SIZE",
			Code:    "FILE001",
		},
	},
	{pattern: "encoding error", msg: msgEncoding},
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "File not found",
			Action:  "Check the path",
			Code:    "FILE003",
		},
	},
	{
		pattern: "is a directory",
		msg: UserMessage{
			Message: "Path is a directory",
			Action:  "Use \"import --dir\" to import a directory",
			Code:    "FILE004",
		},
	},

	// Import
	{
		pattern: "unknown table",
		msg: UserMessage{
			Message: "Unknown import table",
			Action:  "Run \"racedata tables\" to list table keys",
			Code:    "IMP001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Import timed out",
			Action:  "Split the file or raise IMPORT_TIMEOUT",
			Code:    "IMP002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Import was cancelled",
			Action:  "Run the import again",
			Code:    "IMP003",
		},
	},
	{
		pattern: "too many concurrent imports",
		msg: UserMessage{
			Message: "Another import is still running",
			Action:  "Wait for it to finish or raise IMPORT_LOCK_WAIT",
			Code:    "IMP004",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for details",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Typed identifier errors are matched first; otherwise the known patterns
// are searched and the first match is returned. ERR000 is the fallback.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ve *raceid.ValidationError
	if errors.As(err, &ve) {
		switch ve.First().Kind {
		case raceid.PrefixMismatch:
			return msgPrefix
		case raceid.PatternMismatch:
			return msgPattern
		case raceid.OutOfRange:
			return msgRange
		}
	}
	switch {
	case errors.Is(err, racetype.ErrUnknownRaceType):
		return msgRaceType
	case errors.Is(err, racetype.ErrUnknownLocation):
		return msgLocation
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
