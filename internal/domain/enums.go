package domain

// OutcomeStatus represents the lifecycle of one file inside a batch run.
type OutcomeStatus string

const (
	OutcomePending OutcomeStatus = "pending"
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeError   OutcomeStatus = "error"
)

// Renewal types as GLPI encodes them.
const (
	RenewalNone    = 0
	RenewalTacit   = 1 // automatic renewal
	RenewalExpress = 2 // manual renewal
)

// Error codes reported in batch outcomes. The numbering is part of the
// external contract and matches the ITSM-side ingestion reports.
const (
	CodeMalformedFile       = 100
	CodePromptInjection     = 101
	CodeExtensionNotAllowed = 102
	CodePathNotAllowed      = 103
	CodePathNotFound        = 104
)

var errorDescriptions = map[int]string{
	CodeMalformedFile:       "Malformed or unreadable file",
	CodePromptInjection:     "File with possible prompt injection",
	CodeExtensionNotAllowed: "Extension not allowed",
	CodePathNotAllowed:      "Read path not allowed",
	CodePathNotFound:        "Path doesn't exist",
}

// ErrorDescription returns the human description for an error code.
func ErrorDescription(code int) string {
	if d, ok := errorDescriptions[code]; ok {
		return d
	}
	return "Unknown error"
}
