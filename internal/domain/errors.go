package domain

import "errors"

var (
	// ErrInvalidAddress is returned when an account identifier is malformed or zero
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInsufficientFee is returned when a create payment is below the registry fee
	ErrInsufficientFee = errors.New("insufficient creation fee")

	// ErrQuantityOutOfRange is returned when a buy quantity is outside the allowed bounds
	ErrQuantityOutOfRange = errors.New("quantity out of range")

	// ErrInsufficientPayment is returned when a buy payment does not cover the computed cost
	ErrInsufficientPayment = errors.New("insufficient payment")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the registry's held balance
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAmountOverflow is returned when an amount computation would exceed 256 bits
	ErrAmountOverflow = errors.New("amount overflow")

	// ErrSaleNotFound is returned when no sale record exists for an asset identifier
	ErrSaleNotFound = errors.New("sale not found")

	// ErrSaleClosed is returned when buying from a sale that has reached a closing threshold
	ErrSaleClosed = errors.New("sale closed")

	// ErrSaleOpen is returned when settling a sale that has not yet closed
	ErrSaleOpen = errors.New("sale still open")

	// ErrSettlementInProgress is returned when settlement re-enters during the payout call
	ErrSettlementInProgress = errors.New("settlement in progress")

	// ErrNotOwner is returned when a non-owner identity calls an owner-restricted operation
	ErrNotOwner = errors.New("caller is not the registry owner")

	// ErrPayoutFailed wraps a native-currency transfer rejected by the recipient
	ErrPayoutFailed = errors.New("payout failed")

	// ErrInsufficientBalance is returned when an asset transfer exceeds the sender's balance
	ErrInsufficientBalance = errors.New("insufficient balance")
)
