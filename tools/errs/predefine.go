package errs

// Error codes used across the realtime core and the REST surface.
// 10xx: request/boundary, 11xx: session protocol, 12xx: storage, 13xx: join gate.
const (
	CodeInvalidInput     = 1001
	CodeNotFound         = 1002
	CodeTokenInvalid     = 1003
	CodeNotRegistered    = 1101
	CodeAlreadyJoined    = 1102
	CodePersistence      = 1201
	CodeLocked           = 1301
	CodePasswordMismatch = 1302
)

var (
	ErrInvalidInput     = NewCodeError(CodeInvalidInput, "invalid input")
	ErrNotFound         = NewCodeError(CodeNotFound, "record not found")
	ErrTokenInvalid     = NewCodeError(CodeTokenInvalid, "token invalid")
	ErrNotRegistered    = NewCodeError(CodeNotRegistered, "connection not registered")
	ErrAlreadyJoined    = NewCodeError(CodeAlreadyJoined, "already joined")
	ErrPersistence      = NewCodeError(CodePersistence, "persistence failed")
	ErrLocked           = NewCodeError(CodeLocked, "temporarily locked out")
	ErrPasswordMismatch = NewCodeError(CodePasswordMismatch, "password mismatch")
)
