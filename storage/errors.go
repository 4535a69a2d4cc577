package storage

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
)

// Common errors. Every error returned by this package wraps one of these.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrOutOfRange       = errors.New("index out of range")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrAllocation       = errors.New("allocation failed")
	ErrUnsupported      = errors.New("unsupported by storage driver")
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	CodeStringSetAllocation Code = "storage.string.set.allocation_failure"

	CodeDimensionInitInvalid  Code = "storage.dimension.init.invalid"
	CodeDimensionKindInvalid  Code = "storage.dimension.kind.invalid"
	CodeDimensionsInsertGap   Code = "storage.dimensions.insert.invalid"
	CodeDimensionsCapacity    Code = "storage.dimensions.insert.capacity_exceeded"
	CodeDimensionsRemoveRange Code = "storage.dimensions.remove.out_of_range"
	CodeDimensionsGetRange    Code = "storage.dimensions.get.out_of_range"

	CodePropertiesAppendInvalid   Code = "storage.properties.append_dimension.invalid"
	CodePropertiesValidateInvalid Code = "storage.properties.validate.invalid"
	CodePropertiesUnsupported     Code = "storage.properties.support.unsupported"
)

// Components reported to the diagnostic sink and used as the error domain.
const (
	componentString     = "string"
	componentDimension  = "dimension"
	componentDimensions = "dimensions"
	componentProperties = "properties"
)

// fail reports a failed precondition to the diagnostic sink and returns it as
// an error carrying code, component and attrs, wrapping sentinel.
func fail(component string, code Code, sentinel error, msg string, attrs ...any) error {
	logger().Error(msg, append([]any{"component", component, "code", string(code)}, attrs...)...)
	return oops.In(component).Code(code).With(attrs...).Wrapf(sentinel, "%s", msg)
}

// CodeOf returns the Code attached to err, or "" if there is none.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}

	if code, ok := oopsErr.Code().(string); ok {
		return Code(code)
	}

	return Code(fmt.Sprintf("%v", oopsErr.Code()))
}

// FieldsOf returns the structured context attached to err.
func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}

	return oopsErr.Context()
}

// ComponentOf returns the component that reported err.
func ComponentOf(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	return oopsErr.Domain()
}
