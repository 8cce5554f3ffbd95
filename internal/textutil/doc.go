// Package textutil provides small string helpers for deriving filesystem-safe
// names from model output.
package textutil
