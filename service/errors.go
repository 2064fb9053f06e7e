package service

import (
	"fmt"

	"github.com/go-faster/errors"

	models "shopfront/model"
)

// Client facing messages.
const (
	MsgFieldsRequired  = "All fields are required (title, description, imgSrc, price)."
	MsgArrayRequired   = "Please provide an array of products."
	MsgSomeInvalid     = "Some products are missing required fields."
	MsgNotFound        = "Product not found."
	MsgDeleted         = "Product deleted successfully."
	MsgInternal        = "Internal server error."
	msgInvalidPatchFmt = "Invalid value for fields (%s)."
)

// ErrNotFound means no product has the requested id.
var ErrNotFound = errors.New(MsgNotFound)

// InvalidProduct describes one rejected element of a bulk request.
type InvalidProduct struct {
	Index   int                 `json:"index"`
	Product models.ProductInput `json:"product"`
	Missing []string            `json:"missing"`
}

// ValidationError is a client error. Message is safe to show to callers.
type ValidationError struct {
	Message string
	Invalid []InvalidProduct
}

func (e *ValidationError) Error() string { return e.Message }

// StoreError wraps a storage failure. Its detail is for logs only.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }
