// Package domain contains core concepts of the authorship attribution system.
// This file defines Message records as read from an author's corpus.
// Messages are immutable once read.
package domain

// Message represents one short text written by an author.
type Message struct {
	Text     string
	PosTags  string // space separated part-of-speech tags, may be empty
	AuthorID string
}

// HasPosTags reports whether the message carries a non blank POS tag string.
func (m Message) HasPosTags() bool {
	for _, r := range m.PosTags {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}
