// Package domain holds cross-cutting sentinel errors.
package domain

import "errors"

var (
	// ErrNotFound signals a missing professional (unknown id or slug).
	ErrNotFound = errors.New("not found")
	// ErrInvalidFilename signals an unsafe or empty import filename.
	ErrInvalidFilename = errors.New("invalid filename")
	// ErrEmptyImport signals an import request with no content.
	ErrEmptyImport = errors.New("empty import content")
)
