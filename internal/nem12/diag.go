package nem12

// Level is the severity of a Diagnostic.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Diagnostic is one message surfaced during classification or assembly.
// Diagnostics are a side channel: they never appear in the output file.
type Diagnostic struct {
	Level   Level  `json:"level"`
	Source  string `json:"source"`
	Message string `json:"message"`
}

// Info builds an info-level diagnostic.
func Info(source, message string) Diagnostic {
	return Diagnostic{Level: LevelInfo, Source: source, Message: message}
}

// Warn builds a warning-level diagnostic.
func Warn(source, message string) Diagnostic {
	return Diagnostic{Level: LevelWarning, Source: source, Message: message}
}

// Error builds an error-level diagnostic.
func Error(source, message string) Diagnostic {
	return Diagnostic{Level: LevelError, Source: source, Message: message}
}

// HasErrors reports whether any diagnostic in the list is error-level.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Level == LevelError {
			return true
		}
	}
	return false
}
