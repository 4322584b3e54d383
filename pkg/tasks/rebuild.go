package tasks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/stokerbuild/stoker/pkg/launcher"
	"github.com/stokerbuild/stoker/pkg/pipeline"
	"github.com/stokerbuild/stoker/pkg/project"
)

const (
	defaultRebuildOutput = "./stoker"
	defaultRebuildRepo   = "https://github.com/stokerbuild/stoker.git"

	// Context keys owned by the rebuild task.
	KeyRebuildRepo       = "rebuild.repo"
	KeyRebuildDeps       = "rebuild.deps"
	KeyRebuildExclusions = "rebuild.exclusions"
)

func rebuildFactory(procs *launcher.Launcher) pipeline.Factory {
	return func(reg *pipeline.Registry, args []string) (pipeline.Middleware, error) {
		if len(args) > 1 {
			return nil, &pipeline.InvocationError{
				Task:   "rebuild",
				Reason: fmt.Sprintf("expected at most one argument (the output path), got %d", len(args)),
			}
		}

		output := defaultRebuildOutput
		if len(args) == 1 {
			output = args[0]
		}

		return func(next pipeline.Handler) pipeline.Handler {
			return func(ctx context.Context, b *pipeline.Context) error {
				err := runRebuild(ctx, procs, b, output)
				if err != nil {
					return err
				}

				return next(ctx, b)
			}
		}, nil
	}
}

func runRebuild(ctx context.Context, procs *launcher.Launcher, b *pipeline.Context, output string) error {
	repo := b.GetString(KeyRebuildRepo)
	if repo == "" {
		repo = defaultRebuildRepo
	}

	stage, err := ioutil.TempDir("", "stoker-rebuild-")
	if err != nil {
		return &pipeline.IOFailure{Op: "create", Path: "staging directory", Err: err}
	}
	defer os.RemoveAll(stage)

	pipeline.Log(ctx).Info().Str("task", "rebuild").Msgf("Cloning %s", repo)
	handle, err := procs.Launch(ctx, "git", []string{"clone", repo, stage}, launcher.Options{})
	if err != nil {
		return err
	}

	// A failed clone leaves nothing usable behind, abort right away.
	if status := handle.Wait(); status != 0 {
		return &pipeline.SubprocessFailure{Command: "git clone", ExitCode: status}
	}

	restore := procs.WithDir(stage)
	defer restore()

	descPath := filepath.Join(stage, project.DescriptorFile)
	desc, err := project.Load(descPath)
	if err != nil {
		return err
	}

	desc.MergeDependencies(b.GetStrings(KeyRebuildDeps))
	desc.MergeExclusions(b.GetStrings(KeyRebuildExclusions))

	err = desc.Save(descPath)
	if err != nil {
		return err
	}

	err = writeTaskManifest(stage, b.Tasks.Names())
	if err != nil {
		return err
	}

	pipeline.Log(ctx).Info().Str("task", "rebuild").Msg("Building")
	handle, err = procs.Launch(ctx, "go", []string{"build", "-o", "stoker.build", "."}, launcher.Options{})
	if err != nil {
		return err
	}

	if status := handle.Wait(); status != 0 {
		return &pipeline.SubprocessFailure{Command: "go build", ExitCode: status}
	}

	err = copyArtifact(filepath.Join(stage, "stoker.build"), output)
	if err != nil {
		return err
	}

	pipeline.Log(ctx).Info().Str("task", "rebuild").Msgf("Wrote %s", output)
	return nil
}

// writeTaskManifest generates the auxiliary source file that lists the tasks
// to pre-compile into the rebuilt binary.
func writeTaskManifest(dir string, names []string) error {
	builder := &bytes.Buffer{}
	builder.WriteString("// Code generated by the rebuild task. DO NOT EDIT.\n\n")
	builder.WriteString("package main\n\n")
	builder.WriteString("var precompiledTasks = []string{\n")
	for _, name := range names {
		fmt.Fprintf(builder, "\t%q,\n", name)
	}
	builder.WriteString("}\n")

	manifestPath := filepath.Join(dir, "precompiled_tasks.go")
	err := ioutil.WriteFile(manifestPath, builder.Bytes(), 0o644)
	if err != nil {
		return &pipeline.IOFailure{Op: "write", Path: manifestPath, Err: err}
	}

	return nil
}

func copyArtifact(src, dest string) error {
	source, err := os.Open(src)
	if err != nil {
		return &pipeline.IOFailure{Op: "open", Path: src, Err: err}
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return &pipeline.IOFailure{Op: "stat", Path: src, Err: err}
	}

	target, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return &pipeline.IOFailure{Op: "create", Path: dest, Err: err}
	}
	defer target.Close()

	bar := getProgressBar(info.Size(), "Copying artifact")
	_, err = io.Copy(io.MultiWriter(target, bar), source)
	if err != nil {
		return &pipeline.IOFailure{Op: "copy", Path: dest, Err: err}
	}

	return nil
}

func getProgressBar(length int64, desc string) *progressbar.ProgressBar {
	if os.Getenv("CI") == "true" {
		return progressbar.NewOptions64(length, progressbar.OptionSetVisibility(false))
	}

	return progressbar.DefaultBytes(length, desc)
}
