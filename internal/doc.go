// Package internal contains the core implementation packages for appshell.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the appshell CLI and server.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - registry: Page registry, page file loading and immutable snapshots
//   - navigation: Two-level navigation tree derived from a snapshot
//   - shell: Header, sidebar and content layout rendered with templ and gomponents
//   - bindings: Title sync and sidebar drawer toggle per browser session
//   - server: HTTP routes, WebSocket event channel, metrics and hot reload
//   - watcher: File system monitoring with debouncing
//   - config: Configuration management with Viper and detailed validation
//   - errors: Typed errors with codes, context and suggestions
//   - logging: Structured logging on log/slog
//   - validation: Link and origin checks
//   - types: Shared identifiers
//   - version: Build information
//
// # Data Flow
//
// The page file is parsed into a registry. Every read works on a
// snapshot taken from it, so the navigation builder and the bindings
// never see a registry half-way through a reload:
//
//   - Watcher notices a page file change and asks the server to reload
//   - Server validates the new snapshot, swaps it in and broadcasts a reload
//   - Shell renders the document from a snapshot and its navigation tree
//   - Bindings answer location and toggle events over the WebSocket
//
// # Testing Strategy
//
// Each package carries unit tests written with testify. Property tests
// for the navigation builder run with gopter under the property build tag:
//
//	go test -tags property ./internal/navigation/...
package internal
