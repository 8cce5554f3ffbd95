// Package pipeline runs the per-file ingest sequence: validate the image,
// normalize it to JPEG, caption it, derive a descriptive filename, embed the
// caption, write the catalog entry, and finally promote the file into the data
// directory under its new name. Steps run strictly in order; the first failure
// aborts the rest and leaves the original file untouched.
package pipeline
