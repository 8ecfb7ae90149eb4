package docview

import "errors"

var (
	ErrConstruction          = errors.New("docview: invalid property construction")
	ErrValueFormat           = errors.New("docview: value format error")
	ErrUnknownTypeName       = errors.New("docview: unknown property type name")
	ErrInvalidSerializedData = errors.New("docview: invalid serialized data")

	ErrInvalidMagic       = errors.New("docview: invalid bundle magic")
	ErrUnsupportedVersion = errors.New("docview: unsupported bundle version")
	ErrInvalidHeader      = errors.New("docview: invalid bundle header")
	ErrInvalidPayload     = errors.New("docview: invalid bundle payload")
	ErrLimitExceeded      = errors.New("docview: limit exceeded")
	ErrValidation         = errors.New("docview: validation failed")
)
