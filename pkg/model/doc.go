// Package model defines the video generation form: the typed FormValues record
// the form state holder owns, the fixed field catalogue renderers walk, and the
// per-model option sets (ratio, duration, camera motion, style) the visibility
// resolver hands out. Field names are the stable identifiers used across the
// resolver, the submission filter, validation error maps and task payloads.
// Values never carry file contents: FileHandle only references a blob owned by
// the upload pipeline.
package model
