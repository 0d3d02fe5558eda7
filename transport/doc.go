// Package transport is the thin HTTP seam between a loaded facade.DataFacade
// and the outside world. spec.md scopes HTTP itself to the outer shell —
// this package is that shell's one entry point, not a core component.
package transport
