package product

import "errors"

var (
	ErrProductNotFound         = errors.New("product not found")
	ErrSKUExists               = errors.New("SKU already exists")
	ErrBarcodeExists           = errors.New("barcode already exists")
	ErrInvalidInput            = errors.New("invalid product input")
	ErrGlobalAttributeNotFound = errors.New("global attribute not found")
)
