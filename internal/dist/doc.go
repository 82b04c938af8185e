// Package dist assembles a runnable application distribution.
//
// A build runs a fixed sequence of stages over an immutable
// config.BuildConfig: prepare the runtime image, copy libraries, generate
// launcher scripts, and archive the runtime directory. Optional stages then
// write a manifest, record history, publish the archive, and announce the
// build. Stage types live in dist/models, stage functions in dist/stages.
package dist
