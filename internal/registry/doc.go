// Package registry provides the central "glue" for the algorithm modules.
//
// The Registry maps the implementation class names used in trigger menus
// (e.g., "EtSort") to the Go factories that build the algorithm instances.
// It is an explicit object owned by the application, so tests and
// concurrent runs never share registration state.
//
// During startup the registry is populated by the compiled-in modules and
// then validated against the fetched descriptors, so a menu naming a class
// no module provides fails before any event is processed.
package registry
