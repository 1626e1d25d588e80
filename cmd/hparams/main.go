// Command hparams resolves the default configuration for a detection model,
// applies override strings or YAML files, and prints or saves the result.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"hparams"
	"hparams/detection"
)

var (
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	modelName    string
	overrides    []string
	allowNewKeys bool
	outPath      string
)

func main() {
	root := &cobra.Command{
		Use:           "hparams",
		Short:         "Inspect and override detection model hyperparameters",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&modelName, "model", "m", "efficientdet-d1", "model name, e.g. efficientdet-d0")
	root.PersistentFlags().StringArrayVar(&overrides, "hparams", nil, "override string (k=v,k2=v2) or .yaml file, repeatable")
	root.PersistentFlags().BoolVar(&allowNewKeys, "allow-new-keys", false, "permit overrides to introduce new keys")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve()
			if err != nil {
				return err
			}
			fmt.Print(cfg.Dump())
			return nil
		},
	}

	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Write the resolved configuration to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve()
			if err != nil {
				return err
			}
			if err := cfg.Save(outPath); err != nil {
				return err
			}
			log.Info().Str("model", modelName).Str("path", outPath).Msg("configuration saved")
			return nil
		},
	}
	saveCmd.Flags().StringVarP(&outPath, "out", "o", "hparams.yaml", "output file path")

	root.AddCommand(showCmd, saveCmd)

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

// resolve builds the configuration for the selected model with all
// requested overrides applied in order.
func resolve() (*hparams.Config, error) {
	cfg, err := detection.DetectionConfig(modelName)
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		if err := cfg.Override(o, allowNewKeys); err != nil {
			return nil, fmt.Errorf("failed to apply override %q: %w", o, err)
		}
	}
	return cfg, nil
}
