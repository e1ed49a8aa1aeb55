package module

import "errors"

var (
	ErrNotFound       = errors.New("module: not found")
	ErrNotRegular     = errors.New("module: not a regular file")
	ErrNotDirectory   = errors.New("module: not a directory")
	ErrOpen           = errors.New("module: cannot open")
	ErrSymbolNotFound = errors.New("module: symbol not found")
	ErrChangedInPlace = errors.New("module: native module changed in place")
)
