package export

// Column separators for point files.
const (
	Space = "space"
	Comma = "comma"
)

// ValidFormats contains all valid format values
var ValidFormats = []string{Space, Comma}

// IsValidFormat checks if the given format is in the list of valid formats
func IsValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if format == f {
			return true
		}
	}
	return false
}

// GetValidFormatsString returns a comma-separated string of valid formats for error messages
func GetValidFormatsString() string {
	return "space, comma"
}

// separator returns the column separator for format, defaulting to a space.
func separator(format string) string {
	if format == Comma {
		return ","
	}
	return " "
}
