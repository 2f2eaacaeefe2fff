// Package connectors groups the import paths that feed documents into
// the library. Each subpackage knows how to pull PDFs from one kind of
// source; today that is the local filesystem watcher.
package connectors
