package asset

import "errors"

// Asset domain errors
var (
	ErrAssetNotFound = errors.New("asset not found")
	ErrTagExists     = errors.New("asset tag already exists")
	ErrNotAvailable  = errors.New("asset is not available for assignment")
	ErrNotAssigned   = errors.New("asset is not currently assigned")
	ErrAssetRetired  = errors.New("asset has been retired")
)
