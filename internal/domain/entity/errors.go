package entity

import "errors"

var (
	// ErrWalletNotConnected is returned when an operation needs the connected account and there is none.
	ErrWalletNotConnected = errors.New("wallet not connected")
	// ErrConnectionFailed wraps a rejected or broken wallet handshake.
	ErrConnectionFailed = errors.New("wallet connection failed")
	// ErrInvalidAddress is returned for addresses without an on-chain account record.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrAggregationFailed wraps the first failing read of a portfolio fetch.
	ErrAggregationFailed = errors.New("portfolio aggregation failed")

	// ErrAccountNotFound is reported by chain clients when the account query finds nothing.
	ErrAccountNotFound = errors.New("account not found")
	// ErrPreferenceNotFound is reported by preference stores for a missing key.
	ErrPreferenceNotFound = errors.New("preference not found")
	// ErrUnsupportedWallet is returned when no connector is registered for a wallet kind.
	ErrUnsupportedWallet = errors.New("unsupported wallet kind")
	// ErrDenomMismatch is returned when coins of different denominations are combined.
	ErrDenomMismatch = errors.New("denomination mismatch")
)
