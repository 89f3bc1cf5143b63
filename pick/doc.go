// Package pick provides a write-once promise cell that doubles as one
// branch of an N-way selective-synchronization event. A consumer either
// blocks on a single cell or offers it as one of several racing
// alternatives, of which exactly one is ever allowed to win; losers are
// cancelled through nacks. No operation blocks the calling goroutine:
// waiting is realized by parking continuations that a scheduler resumes.
package pick
