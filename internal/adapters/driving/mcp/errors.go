// Package mcp provides an MCP (Model Context Protocol) server adapter for docchat.
// It lets AI assistants ask questions of the documentation and search its chunks.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")

// ErrEmptyQuestion is returned by the ask tool for a blank question.
var ErrEmptyQuestion = errors.New("mcp: question is required")
