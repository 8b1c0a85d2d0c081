package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driving"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the company profile",
	Long: `View and edit the company profile used for every analysis.

The profile is stored on this machine and every change is saved
immediately.`,
	RunE: runProfileShow,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the company profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set profile fields",
	Long: `Set one or more profile fields. Fields whose flag is not given keep
their current value. An empty value clears a field.

Industries: AI/Vision, Bio/Health, SaaS, Manufacturing, Hardware, Other
Focus:      r_d, commercialization

Numeric input that cannot be parsed clears the field. The founding year is
clamped to 1900-2100, revenue and employees to zero or more.`,
	Args: cobra.NoArgs,
	RunE: runProfileSet,
}

var profileKeywordCmd = &cobra.Command{
	Use:   "keyword",
	Short: "Manage profile keywords",
}

var profileKeywordAddCmd = &cobra.Command{
	Use:   "add [keyword]",
	Short: "Add a keyword",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileKeywordAdd,
}

var profileKeywordRemoveCmd = &cobra.Command{
	Use:   "remove [keyword]",
	Short: "Remove a keyword",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileKeywordRemove,
}

var profileResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear every profile field",
	Args:  cobra.NoArgs,
	RunE:  runProfileReset,
}

var profileJSON bool

// Flag names of profile set.
const (
	flagIndustry  = "industry"
	flagYear      = "year"
	flagRevenue   = "revenue"
	flagEmployees = "employees"
	flagFocus     = "focus"
)

func init() {
	profileShowCmd.Flags().BoolVar(&profileJSON, "json", false, "output the profile as JSON")

	profileSetCmd.Flags().String(flagIndustry, "", "industry (empty to clear)")
	profileSetCmd.Flags().String(flagYear, "", "year established")
	profileSetCmd.Flags().String(flagRevenue, "", "annual revenue in KRW")
	profileSetCmd.Flags().String(flagEmployees, "", "number of employees")
	profileSetCmd.Flags().String(flagFocus, "", "business focus: r_d or commercialization")

	profileKeywordCmd.AddCommand(profileKeywordAddCmd)
	profileKeywordCmd.AddCommand(profileKeywordRemoveCmd)

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileKeywordCmd)
	profileCmd.AddCommand(profileResetCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(cmd *cobra.Command, _ []string) error {
	if err := requireProfileService(); err != nil {
		return err
	}

	profile := profileService.Get(commandContext(cmd))

	if profileJSON {
		data, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printProfile(cmd, profile)
	return nil
}

func runProfileSet(cmd *cobra.Command, _ []string) error {
	if err := requireProfileService(); err != nil {
		return err
	}

	edits, err := profileEdits(cmd)
	if err != nil {
		return err
	}
	if len(edits) == 0 {
		return errors.New("no fields given; see 'codeg profile set --help'")
	}

	profile, err := profileService.Update(commandContext(cmd), edits...)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	cmd.Println("Profile saved.")
	cmd.Println()
	printProfile(cmd, profile)
	return nil
}

// profileEdits builds one edit per flag the user gave, in a fixed order.
func profileEdits(cmd *cobra.Command) ([]driving.ProfileEdit, error) {
	builders := []struct {
		flag string
		edit func(string) driving.ProfileEdit
	}{
		{flagIndustry, driving.WithIndustry},
		{flagYear, driving.WithYearEstablished},
		{flagRevenue, driving.WithRevenueKRW},
		{flagEmployees, driving.WithEmployees},
		{flagFocus, driving.WithFocus},
	}

	var edits []driving.ProfileEdit
	for _, b := range builders {
		if !cmd.Flags().Changed(b.flag) {
			continue
		}
		value, err := cmd.Flags().GetString(b.flag)
		if err != nil {
			return nil, fmt.Errorf("reading --%s: %w", b.flag, err)
		}
		edits = append(edits, b.edit(value))
	}
	return edits, nil
}

func runProfileKeywordAdd(cmd *cobra.Command, args []string) error {
	if err := requireProfileService(); err != nil {
		return err
	}

	tag := strings.TrimSpace(args[0])
	before := profileService.Get(commandContext(cmd))

	profile, err := profileService.AddKeyword(commandContext(cmd), tag)
	if err != nil {
		return fmt.Errorf("failed to add keyword: %w", err)
	}

	switch {
	case tag == "":
		cmd.Println("Keyword is blank; nothing added.")
	case before.HasKeyword(tag):
		cmd.Printf("Keyword %q is already in the profile.\n", tag)
	default:
		cmd.Printf("Added keyword %q.\n", tag)
	}
	cmd.Printf("Keywords: %s\n", formatKeywords(profile.Keywords))
	return nil
}

func runProfileKeywordRemove(cmd *cobra.Command, args []string) error {
	if err := requireProfileService(); err != nil {
		return err
	}

	tag := args[0]
	before := profileService.Get(commandContext(cmd))

	profile, err := profileService.RemoveKeyword(commandContext(cmd), tag)
	if err != nil {
		return fmt.Errorf("failed to remove keyword: %w", err)
	}

	if before.HasKeyword(tag) {
		cmd.Printf("Removed keyword %q.\n", tag)
	} else {
		cmd.Printf("Keyword %q is not in the profile.\n", tag)
	}
	cmd.Printf("Keywords: %s\n", formatKeywords(profile.Keywords))
	return nil
}

func runProfileReset(cmd *cobra.Command, _ []string) error {
	if err := requireProfileService(); err != nil {
		return err
	}

	if _, err := profileService.Reset(commandContext(cmd)); err != nil {
		return fmt.Errorf("failed to reset profile: %w", err)
	}
	cmd.Println("Profile cleared.")
	return nil
}

func printProfile(cmd *cobra.Command, p domain.CompanyProfile) {
	cmd.Println("Company Profile")
	cmd.Println("===============")
	cmd.Printf("  Industry:         %s\n", orNotSet(p.Industry.String()))
	cmd.Printf("  Year established: %s\n", orNotSet(p.YearEstablished.String()))
	cmd.Printf("  Revenue (KRW):    %s\n", orNotSet(p.RevenueKRW.String()))
	cmd.Printf("  Employees:        %s\n", orNotSet(p.Employees.String()))
	cmd.Printf("  Focus:            %s\n", orNotSet(p.Focus.Label()))
	cmd.Printf("  Keywords:         %s\n", formatKeywords(p.Keywords))

	if p.Industry == domain.IndustryUnset {
		cmd.Println()
		cmd.Println("Set an industry before running 'codeg analyze'.")
	}
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func formatKeywords(keywords []string) string {
	if len(keywords) == 0 {
		return "(none)"
	}
	return strings.Join(keywords, ", ")
}
