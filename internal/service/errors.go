package service

import "errors"

// Define custom errors for the service layer
var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrSameAccountTransfer    = errors.New("cannot transfer funds to the same account")
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")
	ErrMissingTransferTarget  = errors.New("transfer requires a destination account")
	ErrInvalidAccountType     = errors.New("invalid account type")
	ErrAmountPrecision        = errors.New("amount has more than 4 decimal places")
)
