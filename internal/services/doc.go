// Package services defines the shared error taxonomy for the alignment
// pipeline's collaborators. Subpackages implement the collaborators
// themselves: transcriber (word-level transcription), phrasealign (the
// always-available baseline), and forcedalign (the character-level
// refinement service and its client).
package services
