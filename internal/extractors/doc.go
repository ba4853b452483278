// Package extractors provides implementations of the Extractor interface.
// Each extractor turns the bytes of one file format into plain text that
// can be placed in a prompt.
package extractors
