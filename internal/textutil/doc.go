// Package textutil provides filename sanitization for document titles.
//
// Video titles arrive from arbitrary platforms and may contain filesystem
// metacharacters or decomposed Unicode; sanitization normalizes to NFC,
// strips the unsafe set, and caps the length.
package textutil
