// Package flow implements the per-session conversation state machine that
// drives a single call. Each turn runs three phases strictly in order:
//
//  1. Pre-turn transition: the intent router classifies the raw utterance
//     and may move the session to a new node (with "human_handoff" acting as
//     a global interrupt to transfer_logic).
//  2. Generation: the (possibly just-updated) node's system prompt, the full
//     history, the new utterance and the node's action specs are handed to
//     the generation service, and the reply is streamed to the caller. Both
//     turn records are appended to history, even for an empty reply.
//  3. Post-turn transition: keyword and length heuristics over the user text
//     may move the session again, keyed off the node phase 1 selected.
//
// Nodes form a closed catalogue; transitioning replaces the instance's
// current node name, never mutates a node. The Registry hands out one
// Instance per session identifier with atomic construct-if-absent semantics
// and optional idle eviction.
package flow
