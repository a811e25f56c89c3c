package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ben-spiller/FlashTeacher/internal/config"
	"github.com/ben-spiller/FlashTeacher/internal/question"
	"github.com/ben-spiller/FlashTeacher/internal/store"
)

var rootCmd = &cobra.Command{
	Use:          "flashteacher",
	Short:        "Adaptive flashcard drills in the terminal",
	Long:         "FlashTeacher drills a deck of question/answer pairs, asking the questions you know least and answer slowest most often.",
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runHome,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Database file or postgres:// DSN (overrides FLASHTEACHER_DB)")
	rootCmd.PersistentFlags().String("locale", "", "Locale for answer comparison (overrides FLASHTEACHER_LOCALE)")
	rootCmd.PersistentFlags().String("strength", "", "Collation strength: primary, secondary or tertiary")

	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(decksCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DB = p
	}
	if l, _ := cmd.Flags().GetString("locale"); l != "" {
		cfg.Match.Locale = l
	}
	if s, _ := cmd.Flags().GetString("strength"); s != "" {
		strength, err := question.ParseStrength(s)
		if err != nil {
			return config.Config{}, fmt.Errorf("--strength: %w", err)
		}
		cfg.Match.Strength = strength
	}
	return cfg, nil
}

// openStore opens cfg.DB, or the default database when it is empty.
func openStore(cfg config.Config) (*store.Store, error) {
	dsn := cfg.DB
	if dsn == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		dsn = p
	} else if err := store.EnsureDir(dsn); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	st, err := store.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// setup loads the configuration and opens the store in one step.
func setup(cmd *cobra.Command) (config.Config, *store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return config.Config{}, nil, err
	}
	st, err := openStore(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, st, nil
}
