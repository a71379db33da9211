package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kanokkarn13/carbon-clean-app-sub000/config"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/emission"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/factors"
	factorsource "github.com/Kanokkarn13/carbon-clean-app-sub000/infra/factors"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/infra/logger"
)

var factorsFile string

var factorsCmd = &cobra.Command{
	Use:   "factors",
	Short: "Build and print the emission factor table",
	Long: "Fetches the factor catalog (or reads it from a local file), builds " +
		"the normalized lookup table and prints it as JSON.",
	RunE: runFactors,
}

func init() {
	factorsCmd.Flags().StringVarP(&factorsFile, "file", "f", "", "read rows from a JSON file instead of the endpoint")
	rootCmd.AddCommand(factorsCmd)
}

func runFactors(cmd *cobra.Command, args []string) error {
	var source factors.Source
	if factorsFile != "" {
		source = factorsource.FileSource{Path: factorsFile}
	} else {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		source = factorsource.NewHTTPSource(cfg.Factors)
	}
	svc := factors.NewService(source, nil, logger.New("factors"))
	table, err := svc.Table(cmd.Context())
	if err != nil {
		return err
	}
	return printTable(table)
}

func printTable(table emission.Table) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(table)
}
