package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/schemas"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Create, import, edit and validate the profile file",
}

var (
	profileFile  string
	profileForce bool
)

var profileInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an empty profile file",
	Args:  cobra.NoArgs,
	RunE:  runProfileInit,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the profile as JSON",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileSetCmd = &cobra.Command{
	Use:   "set <key=value>...",
	Short: "Set profile fields",
	Long:  "Sets one or more fixed profile keys. Valid keys: " + strings.Join(types.ProfileKeys(), ", "),
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProfileSet,
}

var profileImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge an exported profile document into the profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileImport,
}

var profileValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the profile file and report missing required fields",
	Args:  cobra.NoArgs,
	RunE:  runProfileValidate,
}

var profileResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Empty every profile field",
	Args:  cobra.NoArgs,
	RunE:  runProfileReset,
}

func init() {
	profileCmd.PersistentFlags().StringVarP(&profileFile, "profile", "p", "", "Path to profile JSON (defaults to the configured profile)")
	profileInitCmd.Flags().BoolVar(&profileForce, "force", false, "Overwrite an existing profile")

	profileCmd.AddCommand(profileInitCmd, profileShowCmd, profileSetCmd, profileImportCmd, profileValidateCmd, profileResetCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileInit(cmd *cobra.Command, _ []string) error {
	path := profilePath(profileFile)
	if _, err := os.Stat(path); err == nil && !profileForce {
		return fmt.Errorf("%s already exists; use --force to overwrite", path)
	}
	if err := saveProfile(path, types.NewProfile()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created empty profile at %s\n", path)
	return nil
}

func runProfileShow(cmd *cobra.Command, _ []string) error {
	profile, err := loadProfile(profilePath(profileFile))
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	path := profilePath(profileFile)
	profile, err := loadProfile(path)
	if err != nil {
		return err
	}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected key=value, got %q", arg)
		}
		if err := profile.Set(strings.TrimSpace(key), value); err != nil {
			return err
		}
	}
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	if err := saveProfile(path, profile); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %d field(s) in %s\n", len(args), path)
	return nil
}

func runProfileImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	path := profilePath(profileFile)
	profile, err := loadProfile(path)
	if err != nil {
		return err
	}
	if err := profile.Merge(data); err != nil {
		return err
	}
	if err := saveProfile(path, profile); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s into %s\n", args[0], path)
	printer(cmd).PrintMissingRequired(profile.MissingRequired())
	return nil
}

func runProfileValidate(cmd *cobra.Command, _ []string) error {
	path := profilePath(profileFile)
	if err := schemas.ValidateFile(schemas.KindProfile, path); err != nil {
		return err
	}
	profile, err := loadProfile(path)
	if err != nil {
		return err
	}
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", path)
	printer(cmd).PrintMissingRequired(profile.MissingRequired())
	return nil
}

func runProfileReset(cmd *cobra.Command, _ []string) error {
	path := profilePath(profileFile)
	profile, err := loadProfile(path)
	if err != nil {
		return err
	}
	profile.Reset()
	if err := saveProfile(path, profile); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Reset %s\n", path)
	return nil
}
