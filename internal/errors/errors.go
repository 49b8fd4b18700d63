package errors

import "fmt"

// ErrorCode represents an exporter error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrEnvironment    ErrorCode = "ENVIRONMENT"     // 500, export location unusable
	ErrItemData       ErrorCode = "ITEM_DATA"       // 422, content item defect
	ErrMedia          ErrorCode = "MEDIA"           // 500, media copy failure
	ErrPackaging      ErrorCode = "PACKAGING"       // 500, archive creation failure
	ErrCancelled      ErrorCode = "CANCELLED"       // 499
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// ExportError represents a structured error with code, status, and details.
type ExportError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ExportError {
	return &ExportError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a content item cannot be found.
func NewNotFound(identifier string) *ExportError {
	return &ExportError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("content item not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewEnvironment creates an error for an unusable export location.
// This is fatal and raised before any item is processed.
func NewEnvironment(dir string, err error) *ExportError {
	return &ExportError{
		Code:    ErrEnvironment,
		Status:  500,
		Message: fmt.Sprintf("export location %s is not writable: %v", dir, err),
		Details: map[string]any{"dir": dir},
	}
}

// NewItemData creates a 422 error for a defective content item.
func NewItemData(id int64, err error) *ExportError {
	return &ExportError{
		Code:    ErrItemData,
		Status:  422,
		Message: fmt.Sprintf("content item %d: %v", id, err),
		Details: map[string]any{"id": id},
	}
}

// NewMedia creates an error for a failed media copy.
func NewMedia(path string, err error) *ExportError {
	return &ExportError{
		Code:    ErrMedia,
		Status:  500,
		Message: fmt.Sprintf("media copy failed for %s: %v", path, err),
		Details: map[string]any{"path": path},
	}
}

// NewPackaging creates an error for a failed archive creation.
// The export directory remains on disk when this is returned.
func NewPackaging(err error) *ExportError {
	return &ExportError{
		Code:    ErrPackaging,
		Status:  500,
		Message: fmt.Sprintf("archive creation failed: %v", err),
	}
}

// NewCancelled creates an error for a cancelled operation.
func NewCancelled(operation string) *ExportError {
	return &ExportError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("operation cancelled: %s", operation),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ExportError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ExportError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is an ExportError with the given code.
func Is(err error, code ErrorCode) bool {
	if eErr, ok := err.(*ExportError); ok {
		return eErr.Code == code
	}
	return false
}
