// Package orchestrator implements the sequential tool-augmented conversation
// loop at the heart of CourseMate. It drives a bounded multi-round dialogue
// with a text-generation backend, resolves requested tool executions through
// an Executor, accumulates everything into an append-only conversation log and
// guarantees a usable final answer even when the ideal flow breaks down.
//
// The control flow is a small state machine: each round issues one backend
// call; a plain text response terminates the run, a tool request triggers a
// tool round whose outcome gates the next iteration. When the round budget is
// exhausted mid-tool-use an extra no-tool synthesis call produces a coherent
// answer, degrading further to history salvage and finally to a fixed message.
package orchestrator
