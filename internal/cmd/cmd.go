// Package cmd implements the terra8 command-line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/terra8/terra8/remote"
	"github.com/terra8/terra8/terra8cfg"
)

// configFile specifies the location of the configuration file.
var configFile string

// bins specifies the number of histogram bins the report subcommand uses.
var bins int

var log = logrus.New()

func init() {
	Root.AddCommand(versionCmd)
	Root.AddCommand(flowaccumCmd)
	Root.AddCommand(terrainCmd)
	Root.AddCommand(upslopeCmd)
	Root.AddCommand(reportCmd)

	Root.PersistentFlags().StringVar(&configFile, "config", "./terra8.toml", "configuration file location")
	reportCmd.Flags().IntVar(&bins, "bins", 10, "number of histogram bins")
}

// Root is the terra8 command.
var Root = &cobra.Command{
	Use:   "terra8",
	Short: "A D8 terrain-analysis toolkit.",
	Long: `terra8 computes D8 flow accumulation, terrain differential
operators (slope, aspect, curvature, SPI, CTI), and D8 upslope traces
over a dense elevation or flow-direction raster.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return startup()
	},
	DisableAutoGenTag: true,
}

var cfg *terra8cfg.ConfigData

func startup() error {
	c, err := terra8cfg.ReadConfigFile(configFile, logrus.NewEntry(log))
	if err != nil {
		return err
	}
	cfg = c
	if cfg.LogFile != "" {
		f, err := openLogFile(cfg.LogFile)
		if err != nil {
			return err
		}
		log.SetOutput(f)
	}
	log.WithField("config", configFile).Info("terra8 starting")
	return nil
}

// resolveInput resolves a possibly-remote configured path to a local file,
// logging a warning-level message on each retry.
func resolveInput(ctx context.Context, path string) (string, error) {
	entry := log.WithField("path", path)
	return remote.Resolve(ctx, path, entry)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("terra8 v0.1.0")
	},
	DisableAutoGenTag: true,
}
