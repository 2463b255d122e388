package vibeguard

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vibeguard/vibeguard/internal/config"
)

var (
	cfgOutput          string
	cfgForce           bool
	cfgEnvFile         string
	cfgIgnoreFile      string
	cfgInclude         string
	cfgExclude         string
	cfgThreads         int
	cfgMaxBytes        int64
	cfgConfirmName     bool
	cfgNoColor         bool
	cfgDefaultExcludes bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .vibeguard.yml with the selected options",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	d := config.Defaults()
	initCmd.Flags().StringVar(&cfgOutput, "output", config.LocalNames[0], "output file path")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
	initCmd.Flags().StringVar(&cfgEnvFile, "env-file", d.EnvFile, "env file secrets are saved to")
	initCmd.Flags().StringVar(&cfgIgnoreFile, "ignore-file", d.IgnoreFile, "ignore file the env file is added to")
	initCmd.Flags().StringVar(&cfgInclude, "include", "", "comma-separated include globs")
	initCmd.Flags().StringVar(&cfgExclude, "exclude", "", "comma-separated exclude globs")
	initCmd.Flags().IntVar(&cfgThreads, "threads", 0, "worker threads (0=GOMAXPROCS)")
	initCmd.Flags().Int64Var(&cfgMaxBytes, "max-bytes", d.MaxBytes, "skip files larger than this")
	initCmd.Flags().BoolVar(&cfgConfirmName, "confirm-variable-name", d.ConfirmVariableName, "prompt for the variable name before each fix")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
	initCmd.Flags().BoolVar(&cfgDefaultExcludes, "default-excludes", d.DefaultExcludes, "enable default ignore patterns")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, s, err := loadSettings(cmd, ".")
			if err != nil {
				return err
			}
			b, err := yaml.Marshal(settingsFile(s))
			if err != nil {
				return err
			}
			fmt.Print(string(b))
			return nil
		},
	}
	cfgCmd.AddCommand(showCmd)
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	if _, err := os.Stat(cfgOutput); err == nil && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	fc := config.FileConfig{
		Enable:              boolPtr(true),
		ConfirmVariableName: boolPtr(cfgConfirmName),
		EnvFile:             strPtr(cfgEnvFile),
		IgnoreFile:          strPtr(cfgIgnoreFile),
		Include:             optStrPtr(cfgInclude),
		Exclude:             optStrPtr(cfgExclude),
		MaxBytes:            int64Ptr(cfgMaxBytes),
		Threads:             intPtr(cfgThreads),
		DefaultExcludes:     boolPtr(cfgDefaultExcludes),
		NoColor:             boolPtr(cfgNoColor),
	}
	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0o644); err != nil {
		return err
	}
	fmt.Println("Wrote", cfgOutput)
	return nil
}

func settingsFile(s config.Settings) config.FileConfig {
	return config.FileConfig{
		Enable:              boolPtr(s.Enable),
		ConfirmVariableName: boolPtr(s.ConfirmVariableName),
		EnvFile:             strPtr(s.EnvFile),
		IgnoreFile:          strPtr(s.IgnoreFile),
		Include:             optStrPtr(s.Include),
		Exclude:             optStrPtr(s.Exclude),
		MaxBytes:            int64Ptr(s.MaxBytes),
		Threads:             intPtr(s.Threads),
		DefaultExcludes:     boolPtr(s.DefaultExcludes),
		NoColor:             boolPtr(s.NoColor),
	}
}

func strPtr(s string) *string { return &s }
func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }
