package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ecopulse-sim/internal/prefs"
)

var (
	prefsFile     string
	prefsLanguage string
	prefsTheme    string
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change display preferences",
}

var prefsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print stored and resolved preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPrefs(cmd)
		if err != nil {
			return err
		}
		return printPrefs(cmd, store.Get(), prefs.OSEnvironment{})
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Persist language and/or theme",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("language") && !cmd.Flags().Changed("theme") {
			return fmt.Errorf("nothing to set: pass --language and/or --theme")
		}
		store, err := openPrefs(cmd)
		if err != nil {
			return err
		}
		p := store.Get()
		if cmd.Flags().Changed("language") {
			if p.Language, err = prefs.ParseLanguage(prefsLanguage); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("theme") {
			if p.Theme, err = prefs.ParseTheme(prefsTheme); err != nil {
				return err
			}
		}
		if err := store.Set(p); err != nil {
			return err
		}
		return printPrefs(cmd, store.Get(), prefs.OSEnvironment{})
	},
}

func openPrefs(cmd *cobra.Command) (*prefs.Store, error) {
	path := prefsFile
	if path == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return nil, err
		}
		path = cfg.PreferencesPath
	}
	return prefs.Open(path)
}

func printPrefs(cmd *cobra.Command, p prefs.Preferences, env prefs.Environment) error {
	out := struct {
		Preferences prefs.Preferences `yaml:"preferences"`
		Resolved    prefs.Resolved    `yaml:"resolved"`
	}{p, prefs.Resolve(p, env)}
	b, err := yaml.Marshal(out)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(b)
	return err
}

func init() {
	prefsCmd.PersistentFlags().StringVar(&prefsFile, "file", "", "Preferences file (defaults to preferences_path from config)")
	prefsSetCmd.Flags().StringVar(&prefsLanguage, "language", "", "Language: en, ar or system")
	prefsSetCmd.Flags().StringVar(&prefsTheme, "theme", "", "Theme: light, dark or system")
	prefsCmd.AddCommand(prefsGetCmd, prefsSetCmd)
}
