package lxmlbind

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for use with errors.Is. The structured error types below
// match their sentinel through an Is method.
var (
	ErrTagMismatch        = errors.New("lxmlbind: tag mismatch")
	ErrAttributeNotSet    = errors.New("lxmlbind: attribute not set")
	ErrCannotDetachRoot   = errors.New("lxmlbind: cannot detach root element")
	ErrConversion         = errors.New("lxmlbind: conversion error")
	ErrIndexOutOfRange    = errors.New("lxmlbind: index out of range")
	ErrKeyNotFound        = errors.New("lxmlbind: key not found")
	ErrKeyMismatch        = errors.New("lxmlbind: key mismatch")
	ErrUnknownElementTag  = errors.New("lxmlbind: unknown element tag")
	ErrNoRootElement      = errors.New("lxmlbind: document has no root element")
	ErrInvalidDeclaration = errors.New("lxmlbind: invalid declaration")
)

// A TagMismatchError is returned when an element is bound to a class whose
// declared tag differs from the element's tag.
type TagMismatchError struct {
	Class    string
	Expected string
	Actual   string
}

func (e *TagMismatchError) Error() string {
	return fmt.Sprintf("lxmlbind: %q object requires tag %q, not %q", e.Class, e.Expected, e.Actual)
}

func (e *TagMismatchError) Is(target error) bool { return target == ErrTagMismatch }

// An AttributeNotSetError is returned when deleting a field whose path does
// not resolve.
type AttributeNotSetError struct {
	Class string
	Field string
}

func (e *AttributeNotSetError) Error() string {
	return fmt.Sprintf("lxmlbind: %q object has no attribute %q", e.Class, e.Field)
}

func (e *AttributeNotSetError) Is(target error) bool { return target == ErrAttributeNotSet }

// A ConversionError is returned when text content cannot be converted to
// or from a field's Go type.
type ConversionError struct {
	Path string
	Type string
	Text string
	Err  error
}

func (e *ConversionError) Error() string {
	msg := "lxmlbind: cannot convert " + strconv.Quote(e.Text) + " to " + e.Type
	if e.Path != "" {
		msg += " at " + strconv.Quote(e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConversionError) Unwrap() error { return e.Err }

func (e *ConversionError) Is(target error) bool { return target == ErrConversion }

// An IndexOutOfRangeError is returned for positional List access beyond
// its bounds.
type IndexOutOfRangeError struct {
	Index  int
	Length int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("lxmlbind: index %d out of range [0:%d]", e.Index, e.Length)
}

func (e *IndexOutOfRangeError) Is(target error) bool { return target == ErrIndexOutOfRange }

// A KeyNotFoundError is returned by Dict lookups for a key no element maps to.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("lxmlbind: key %q not found", e.Key)
}

func (e *KeyNotFoundError) Is(target error) bool { return target == ErrKeyNotFound }

// A KeyMismatchError is returned by Dict.Set when the element's derived key
// differs from the key it is being stored under.
type KeyMismatchError struct {
	Key     string
	Derived string
	Keyed   bool
}

func (e *KeyMismatchError) Error() string {
	if !e.Keyed {
		return fmt.Sprintf("lxmlbind: cannot store unkeyed element under key %q", e.Key)
	}
	return fmt.Sprintf("lxmlbind: element with key %q stored under key %q", e.Derived, e.Key)
}

func (e *KeyMismatchError) Is(target error) bool { return target == ErrKeyMismatch }

// An UnknownElementTagError is returned when a polymorphic collection meets
// a child whose tag has no registered element type.
type UnknownElementTagError struct {
	Tag string
}

func (e *UnknownElementTagError) Error() string {
	return fmt.Sprintf("lxmlbind: no element type registered for tag %q", e.Tag)
}

func (e *UnknownElementTagError) Is(target error) bool { return target == ErrUnknownElementTag }

// A DuplicateTagError is returned when two element types registered with
// the same Dispatch share a tag.
type DuplicateTagError struct {
	Tag string
}

func (e *DuplicateTagError) Error() string {
	return fmt.Sprintf("lxmlbind: element tag %q registered twice", e.Tag)
}

func (e *DuplicateTagError) Is(target error) bool { return target == ErrInvalidDeclaration }

// A DeclarationError reports an invalid class or field declaration.
type DeclarationError struct {
	Class string
	Err   error
}

func (e *DeclarationError) Error() string {
	return "lxmlbind: invalid declaration of " + strconv.Quote(e.Class) + ": " + e.Err.Error()
}

func (e *DeclarationError) Unwrap() error { return e.Err }

func (e *DeclarationError) Is(target error) bool { return target == ErrInvalidDeclaration }
