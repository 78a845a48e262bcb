package variation

import "errors"

var (
	ErrUnknownField          = errors.New("unknown variation field")
	ErrInvalidFieldValue     = errors.New("invalid value for variation field")
	ErrUnknownAttribute      = errors.New("attribute is not used for variations")
	ErrUnknownValue          = errors.New("value is not defined on attribute")
	ErrIncompleteKeyTuple    = errors.New("key tuple does not choose a value for every variation attribute")
	ErrNoVariationAttributes = errors.New("no attribute is used for variations")
	ErrEmptyAttributeName    = errors.New("attribute name is empty")
	ErrDuplicateAttribute    = errors.New("duplicate attribute name")
)

// IsValidation reports whether err was caused by caller input rather than by
// the environment.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrUnknownField,
		ErrInvalidFieldValue,
		ErrUnknownAttribute,
		ErrUnknownValue,
		ErrIncompleteKeyTuple,
		ErrNoVariationAttributes,
		ErrEmptyAttributeName,
		ErrDuplicateAttribute,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
