// Package importers turns user-supplied JSON documents into quotes.
//
// The flow is:
//
//	raw bytes → archive (optional) → Parse → QuoteAppender.Append
//
// Only a JSON array is accepted. Every element must be an object whose
// "text" and "category" are non-empty after trimming; a single bad element
// rejects the whole document and nothing is appended.
package importers
