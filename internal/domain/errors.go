package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidKind        = errors.New("unknown transaction kind")
	ErrOverpayment        = errors.New("payment exceeds outstanding balance")
	ErrMalformedTimestamp = errors.New("unrecognized timestamp format")
	ErrDuplicateCustomer  = errors.New("customer already exists for this owner")
	ErrDuplicateOwner     = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidRequest     = errors.New("invalid request")
)
