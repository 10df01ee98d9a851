// Package model defines the normalized generation provider abstraction used
// by the Vocero flow engine. A Model turns a Request (system instructions,
// turn history, the new user utterance and optional callable action specs)
// into a channel of streamed Response fragments plus a terminal error channel.
//
// Provider adapters live in subpackages (openai, anthropic). This version of
// Vocero only surfaces textual content fragments: any structured tool-call
// signal a provider emits is dropped by the adapters, never forwarded. The
// action specs are still advertised so the provider can choose to invoke
// them; acting on that choice is a future concern.
package model
