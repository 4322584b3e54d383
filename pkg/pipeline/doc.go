// Package pipeline implements stoker's task model: a registry of named build
// steps and a builder that composes an ordered list of task invocations into a
// single handler. Each task contributes a middleware function that wraps the
// rest of the pipeline, so a task can run logic both before and after all
// downstream tasks (onion ordering) or skip them entirely.
package pipeline
