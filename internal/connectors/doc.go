// Package connectors provides the sources documents are read from.
// The filesystem connector reads the docs directory.
package connectors
