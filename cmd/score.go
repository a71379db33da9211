package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/model"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/points"
)

var scoreCmd = &cobra.Command{
	Use:   "score <telemetry.json>",
	Short: "Evaluate an activity telemetry file to a point score",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var act model.Activity
	if err := json.Unmarshal(data, &act); err != nil {
		return fmt.Errorf("decode telemetry: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), points.Evaluate(act))
	return nil
}
