// Package textcodec turns corpus byte streams into text chunks and encodes
// exported text back to bytes.
//
// UTF-8 is decoded strictly: a malformed or truncated sequence is reported as
// a DecodeError rather than replaced. Other character sets are resolved by
// name through golang.org/x/text and transcoded to UTF-8 first. Line endings
// are translated to "\n" by default ("\r\n" and a lone "\r" both count as one
// line break), matching how the corpus tooling has always read text.
package textcodec
