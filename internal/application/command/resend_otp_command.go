package command

// ResendOTPCommand rotates the code of an existing pending registration and
// re-delivers it. The profile fields of the pending registration are left
// untouched.
type ResendOTPCommand struct {
	Email string `json:"email"`
}

type ResendOTPCommandResult struct {
	Message string `json:"message"`
}
