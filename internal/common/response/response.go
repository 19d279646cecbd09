package response

import (
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
)

// Result is what every session operation reports back to its caller. Message is ready to be
// shown to the shopper.
type Result struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func Succeeded(message string) Result {
	return Result{Success: true, Message: message}
}

// Failed turns err into a failed result carrying the user-facing message for err.
func Failed(err error) Result {
	return Result{Success: false, Message: commonErrors.Message(err)}
}
