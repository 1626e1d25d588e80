package hparams

import "errors"

// Errors returned by tree access and override operations. All are wrapped
// with the offending key path or the original override string, so callers
// should match with errors.Is.
var (
	// ErrKeyNotFound indicates a read of a key that does not exist in the tree.
	ErrKeyNotFound = errors.New("key not found")
	// ErrUnknownKey indicates an override attempted to introduce a key that
	// does not exist in the target tree while allowNewKeys was false.
	ErrUnknownKey = errors.New("key does not exist for overriding")
	// ErrInvalidOverride indicates a malformed override string: a pair with
	// more than one '=', or a string that neither contains '=' nor names a
	// YAML file.
	ErrInvalidOverride = errors.New("invalid override string")
	// ErrInvalidOverrideType indicates Override was called with a source that
	// is neither a string, a map, nor a *Config.
	ErrInvalidOverrideType = errors.New("unsupported override source type")
)
