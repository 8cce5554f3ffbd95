// Package monitor watches the data directory for new image files. Two event
// sources are provided: a native fsnotify-backed watcher and a polling scanner
// for filesystems without change notifications (network mounts). Both emit the
// same Event stream, which is filtered by extension and debounced per path
// before anything downstream sees it.
package monitor
