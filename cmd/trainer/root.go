package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scalynx/idea-validator/internal/config"
	"github.com/scalynx/idea-validator/internal/logging"
	"github.com/scalynx/idea-validator/internal/storage"
)

// app is the state shared by every subcommand once the root has run.
type app struct {
	cfg    *config.Config
	logger *logrus.Entry
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "trainer",
		Short:         "Train and query the business idea validator",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().String("env-file", ".env", "Dotenv file to load before reading the environment")
	root.PersistentFlags().String("artifacts", "", "Artifact directory (overrides ARTIFACT_DIR)")
	root.PersistentFlags().String("log-level", "", "Log level (overrides LOG_LEVEL)")

	root.AddCommand(newTrainCmd(a))
	root.AddCommand(newPredictCmd(a))
	return root
}

// init loads the env file, then configuration and the logger.
func (a *app) init(cmd *cobra.Command) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	a.cfg = config.Load()
	if dir, _ := cmd.Flags().GetString("artifacts"); dir != "" {
		a.cfg.Artifacts.Dir = dir
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		a.cfg.Log.Level = level
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.logger = logging.NewWithOutput(cmd.ErrOrStderr(), a.cfg.Log.Level, a.cfg.Log.Format, "trainer")
	return nil
}

func (a *app) store() (*storage.FileStorage, error) {
	store, err := storage.NewFileStorage(a.cfg.Artifacts.Dir)
	if err != nil {
		return nil, fmt.Errorf("open artifact store: %w", err)
	}
	return store, nil
}
