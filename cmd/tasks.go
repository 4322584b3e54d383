package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stokerbuild/stoker/pkg/pipeline"
	"github.com/stokerbuild/stoker/pkg/tasks"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List all registered tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Available tasks:")
		fmt.Print(pipeline.DescribeAll(tasks.Defaults()))
		return nil
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe <task>",
	Short: "Show the full documentation of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := pipeline.DescribeOne(tasks.Defaults(), args[0])
		if err != nil {
			return err
		}

		fmt.Print(doc)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(describeCmd)
}
