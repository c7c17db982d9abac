// Package canon produces canonical JSON for the named counts persisted as
// text columns.
//
// Canonical output has object keys sorted by UTF-16 code units, no HTML
// escaping and no insignificant whitespace, so that equal maps always
// serialize to identical bytes.
package canon
