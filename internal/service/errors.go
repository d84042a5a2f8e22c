package service

import "errors"

var (
	// ErrCustomerNotFound is returned when a saved-method charge references
	// an email with no processor customer behind it.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrInvalidPaymentMethod is returned when the payment method reference is empty.
	ErrInvalidPaymentMethod = errors.New("payment method id is required")

	// ErrInvalidCustomerEmail is returned when the customer email is empty.
	ErrInvalidCustomerEmail = errors.New("customer email is required")

	// ErrInvalidAmount is returned when the charge amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidCurrency is returned when the currency code is empty.
	ErrInvalidCurrency = errors.New("currency is required")

	// ErrInvalidPriceID is returned when a checkout session is requested without a price.
	ErrInvalidPriceID = errors.New("price id is required")

	// ErrUnhandledPaymentStatus is returned when the processor reports a status
	// that is neither terminal success nor a recognized action requirement.
	// It must never be reported to the caller as success.
	ErrUnhandledPaymentStatus = errors.New("unhandled payment status")

	// ErrMissingCandidatureFields is returned when a candidature lacks
	// name, email or phone.
	ErrMissingCandidatureFields = errors.New("name, email and phone are required")

	// ErrSheetsNotConfigured is returned when the spreadsheet path is used
	// without the required configuration.
	ErrSheetsNotConfigured = errors.New("spreadsheet storage is not configured")

	// ErrSheetAppendFailed is returned when the spreadsheet write fails.
	ErrSheetAppendFailed = errors.New("could not store candidature")
)
