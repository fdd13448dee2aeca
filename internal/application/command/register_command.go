package command

// RegisterCommand starts a registration: it validates the profile fields,
// sends the verification code, and stores the pending registration. No
// account exists until the code is verified.
type RegisterCommand struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	Password       string `json:"password"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

type RegisterCommandResult struct {
	Message string `json:"message"`
}
