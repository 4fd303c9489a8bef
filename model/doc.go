// Package model defines the normalized backend boundary used by the
// orchestrator. Provider SDK response shapes (single content object vs.
// lists of blocks, attribute vs. mapping access) vary widely; adapters in
// the model/anthropic and model/openai subpackages convert them into the
// one fixed Response shape declared here so the orchestrator never performs
// shape-sniffing.
package model
