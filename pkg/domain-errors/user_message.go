package domainerrors

// Messages shown to the user when the backend did not supply one.
const (
	MsgTryAgainLater      = "Something went wrong. Please try again later."
	MsgInvalidCredentials = "Invalid credentials"
	MsgInvalidSelection   = "Please select a valid parliament and assembly"
)

// UserMessage maps err to the text a screen shows in an alert or inline.
//
// Validation and backend 4xx messages pass through so the user can correct the
// form. Transport, contract and internal failures collapse to the generic
// retry text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch CodeOf(err) {
	case CodeValidation, CodeBadRequest, CodeConflict, CodeForbidden, CodeNotFound, CodeUnauthorized, CodeRateLimited:
		if msg := MessageOf(err); msg != "" {
			return msg
		}
		return MsgTryAgainLater
	case CodeInvalidSelection:
		if msg := MessageOf(err); msg != "" {
			return msg
		}
		return MsgInvalidSelection
	default:
		return MsgTryAgainLater
	}
}
