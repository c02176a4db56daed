package opskit

import (
	"fmt"
	"math/big"
)

// UnknownSchemaFieldError is returned when the relayer's ForwardRequest schema declares a
// field the request does not carry.
type UnknownSchemaFieldError struct {
	Field string
}

// NewUnknownSchemaFieldError creates a new UnknownSchemaFieldError.
func NewUnknownSchemaFieldError(field string) *UnknownSchemaFieldError {
	return &UnknownSchemaFieldError{Field: field}
}

func (e *UnknownSchemaFieldError) Error() string {
	return fmt.Sprintf("ForwardRequest schema field %q has no value in the request", e.Field)
}

// ChainIDMismatchError is returned when the relayer's domain targets another chain.
type ChainIDMismatchError struct {
	Expected *big.Int
	Received *big.Int
}

// NewChainIDMismatchError creates a new ChainIDMismatchError.
func NewChainIDMismatchError(expected, received *big.Int) *ChainIDMismatchError {
	return &ChainIDMismatchError{Expected: expected, Received: received}
}

func (e *ChainIDMismatchError) Error() string {
	if e.Received == nil {
		return fmt.Sprintf("domain has no chainId, expected %s", e.Expected)
	}

	return fmt.Sprintf("domain chainId %s doesn't match expected chain %s", e.Received, e.Expected)
}
