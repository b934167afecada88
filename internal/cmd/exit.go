// Package cmd provides command implementations for the nidmfsl CLI.
package cmd

// Exit codes.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitParseError indicates a malformed table, number or design key.
	ExitParseError = 2

	// ExitIntegrityError indicates an unresolvable cross-reference between artifacts.
	ExitIntegrityError = 3

	// ExitUnsupported indicates a FEAT configuration the parser does not handle.
	ExitUnsupported = 4

	// ExitNotFound indicates a required artifact is missing.
	ExitNotFound = 5
)

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitParseError:
		return "Parse Error"
	case ExitIntegrityError:
		return "Integrity Error"
	case ExitUnsupported:
		return "Unsupported Configuration"
	case ExitNotFound:
		return "Not Found"
	default:
		return "Unknown"
	}
}
