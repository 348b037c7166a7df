package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	SevInfo Severity = iota
	// SevWarning - например, циклический импорт; компиляцию не прерывает.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Fails reports whether a diagnostic of this severity sets HadError.
func (s Severity) Fails() bool { return s >= SevError }
