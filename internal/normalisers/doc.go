// Package normalisers turns raw files into text documents.
//
// Each sub-package handles one format. The Registry in this package
// dispatches a RawDocument to the highest-priority normaliser that
// supports its MIME type.
package normalisers
