// Package types defines the Todo entity, the Store interface, configuration,
// and the standard error values shared by every todo storage backend and
// the controllers that drive them.
package types
