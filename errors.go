package strata

import "errors"

var (
	// ErrAtlasTooSmall is returned when a region or source does not fit the atlas.
	ErrAtlasTooSmall = errors.New("strata: atlas too small")
	// ErrDuplicateLayer is returned when a layer ID is registered twice.
	ErrDuplicateLayer = errors.New("strata: duplicate layer")
	// ErrUnknownLayer is returned when a layer ID has not been registered.
	ErrUnknownLayer = errors.New("strata: unknown layer")
	// ErrDuplicateSource is returned when two atlas sources share a name.
	ErrDuplicateSource = errors.New("strata: duplicate atlas source")
)
