// Package tasks contains the tasks that ship with stoker: the rebuild and
// delegate composites built on the process launcher plus a handful of smaller
// building blocks.
package tasks

import (
	"github.com/stokerbuild/stoker/pkg/launcher"
	"github.com/stokerbuild/stoker/pkg/pipeline"
)

// Defaults returns a registry populated with the builtin tasks. All entry
// points are resolved here, during startup; nothing is loaded lazily later.
func Defaults() *pipeline.Registry {
	reg := pipeline.NewRegistry()
	Register(reg, launcher.New())
	return reg
}

// Register adds the builtin tasks to the given registry. All subprocess tasks
// share the given launcher so its working-directory scope nests correctly.
func Register(reg *pipeline.Registry, procs *launcher.Launcher) {
	reg.Register(pipeline.Spec{
		Name:    "rebuild",
		Factory: rebuildFactory(procs),
		Long: `Rebuild the tool from source.

Clones the source repository into a staging directory, merges the extra
dependencies and exclusions recorded in the build context into the cloned
descriptor, generates the pre-compiled task manifest, builds the result and
copies the artifact to the given output path (default: ` + defaultRebuildOutput + `).
A failed clone or build aborts the task.`,
	})

	reg.Register(pipeline.Spec{
		Name:    "delegate",
		Factory: delegateFactory(procs),
		Long: `Delegate the given arguments to an external build tool.

Writes a temporary project descriptor derived from the build context, invokes
the tool configured under the "delegate.tool" context key (default: ` + defaultDelegateTool + `)
and removes the descriptor again once the tool has finished. Fails if a
descriptor already exists at the target path. The child process gets no stdin,
so this is unsuitable for tools that prompt interactively.`,
	})

	reg.Register(pipeline.Spec{
		Name:    "exec",
		Factory: execFactory(procs),
		Short:   "Run an external command and fail the pipeline if it does",
	})

	reg.Register(pipeline.Spec{
		Name:    "script",
		Factory: scriptFactory(procs),
		Long: `Run an inline POSIX shell snippet.

The snippet runs with -e semantics in the launcher's current working
directory. The project name and version from the build context are exposed as
STOKER_PROJECT and STOKER_VERSION.`,
	})

	reg.Register(pipeline.Spec{
		Name:    "time",
		Factory: timeFactory,
		Short:   "Log the wall-clock time taken by the rest of the pipeline",
	})

	reg.Register(pipeline.Spec{
		Name:    "clean",
		Factory: cleanFactory,
		Short:   "Remove the build output directory",
	})

	reg.Register(pipeline.Spec{
		Name:    "help",
		Factory: helpFactory,
		Long: `Print task documentation.

Without arguments, lists every registered task with its one-line description.
With a task name, prints that task's full documentation.`,
	})
}
