package models

import "errors"

// Domain-specific errors shared across the pipeline packages
var (
	// ErrDealNotFound indicates the referenced deal ID is absent from the store
	ErrDealNotFound = errors.New("deal not found")

	// ErrEmptyDealID indicates a deal arrived without an identifier
	ErrEmptyDealID = errors.New("deal ID cannot be empty")

	// ErrUnknownStage indicates a stage key outside the configured stage set
	ErrUnknownStage = errors.New("stage is not in the configured stage set")

	// ErrSameStage indicates a stage change where source and target are equal
	ErrSameStage = errors.New("deal is already in the target stage")
)
