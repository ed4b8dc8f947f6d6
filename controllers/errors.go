package controllers

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

var (
	ErrInvalidTableStatus = &CustomError{"status must be one of empty, occupied, booked"}
	ErrTableNumberTaken   = &CustomError{"a table with this number already exists"}
	ErrTableInUse         = &CustomError{"table has active reservations"}
	ErrUnknownTable       = &CustomError{"tableId does not match any table"}
	ErrNegativeAmount     = &CustomError{"total_amount must not be negative"}
	ErrInvalidCredentials = &CustomError{"invalid credentials"}
	ErrMissingQuery       = &CustomError{"query parameter q is required"}
)
