// Package core provides the foundational domain types shared across Vocero:
//
//   - Turn (one role-attributed utterance in a conversation history)
//   - ActionSpec (a callable action advertised to the generation provider)
//   - identifier helpers
//
// The package intentionally carries no behavior beyond small value helpers so
// that the flow engine, the intent router and the generation service can share
// vocabulary without depending on each other.
package core
