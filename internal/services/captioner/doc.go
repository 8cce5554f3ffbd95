// Package captioner wraps the vision-model HTTP API that produces image
// captions. The daemon talks to a locally hosted Moondream-style server
// exposing caption and query endpoints; the client encodes normalized JPEG
// bytes as a data URL and returns plain text.
package captioner
