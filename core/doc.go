// Package core provides the foundational domain types shared across
// CourseMate. It defines the core abstractions for:
//
//   - Content (role-based conversation turns built from ordered parts)
//   - Sessions (prior-exchange containers used for conversational context)
//   - Identifier generation for runs and tool invocations
//
// The package intentionally keeps implementation concerns (backend adapters,
// orchestration, concrete tools) out of scope, exposing small types so other
// packages can interoperate without cyclic dependencies.
package core
