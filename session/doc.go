// Package session provides session store implementations for conversational
// exchange history. The history is rendered to a plain-text summary that the
// orchestrator folds into the system prompt at the start of a run; it is not
// replayed as literal message turns.
package session
