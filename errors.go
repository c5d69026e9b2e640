package iiifld

import (
	"errors"
	"fmt"
)

// ErrNoValidServiceID is returned when an image carries an empty service
// list, leaving no addressable URI to attach to it.
var ErrNoValidServiceID = errors.New("image carries no valid service id")

// UnknownVersionError reports an `@context` value that matches none of
// the four known context URIs. Contexts holds whatever string values
// survived parsing, for diagnostics.
type UnknownVersionError struct {
	Contexts []string
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("IIIF `@context` matches no known version: %#v", e.Contexts)
}

// UnknownResourceTypeError reports a type discriminator that is not
// recognized for the detected version.
type UnknownResourceTypeError struct {
	Version Version
	Type    string
}

func (e *UnknownResourceTypeError) Error() string {
	return fmt.Sprintf("IIIF v%s resource type is not recognized: %#v", e.Version, e.Type)
}

// FieldError reports a decode failure at a named field, carrying the
// path down to it and the innermost cause.
type FieldError struct {
	Path string
	Err  error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Field wraps err with the path of the field being decoded. Nested calls
// accumulate dotted paths, outermost first.
func Field(path string, err error) error {
	if inner, ok := err.(*FieldError); ok {
		return &FieldError{Path: path + "." + inner.Path, Err: inner.Err}
	}
	return &FieldError{Path: path, Err: err}
}
