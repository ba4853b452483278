package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

//nolint:gosec // G101: config key name, not a credential.
const keyAPIKey = "llm.api_key"

var settingsJSON bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and modify settings",
	Long: `View and modify docchat settings.

Settings are stored in config.toml inside the configuration directory.
DOCCHAT_API_KEY or GEMINI_API_KEY, in the environment or a .env file,
override llm.api_key.`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a single setting",
	Long: `Set a single setting. An empty value restores the default.

Keys:
  llm.provider     gemini, ollama, openai or anthropic
  llm.model        model name for the provider
  llm.base_url     API endpoint (ollama and compatible APIs)
  llm.api_key      API key; prompted without echo when the value is omitted
  session.storage  sqlite or memory`,
	Args: cobra.RangeArgs(1, 2),
	ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		if settingsService == nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return settingsService.Keys(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runSettingsSet,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Choose the LLM provider interactively",
	Args:  cobra.NoArgs,
	RunE:  runSettingsLLM,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the LLM provider answers",
	Args:  cobra.NoArgs,
	RunE:  runSettingsCheck,
}

func init() {
	settingsCmd.Flags().BoolVar(&settingsJSON, "json", false, "output as JSON")
	settingsCmd.AddCommand(settingsSetCmd, settingsLLMCmd, settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

// settingsView is the printable form of the settings. The API key is
// always masked.
type settingsView struct {
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	BaseURL    string `json:"base_url,omitempty"`
	APIKey     string `json:"api_key,omitempty"`
	Configured bool   `json:"configured"`
	Storage    string `json:"storage"`
	ConfigDir  string `json:"config_dir,omitempty"`
	Problem    string `json:"problem,omitempty"`
}

func newSettingsView(s *domain.AppSettings) settingsView {
	v := settingsView{
		Provider:   s.LLM.Provider.String(),
		Model:      s.LLM.Model,
		BaseURL:    s.LLM.BaseURL,
		Configured: s.LLM.IsConfigured(),
		Storage:    s.Session.Storage.String(),
		ConfigDir:  configDir,
	}
	if s.LLM.APIKey != "" {
		v.APIKey = maskAPIKey(s.LLM.APIKey)
	}
	if err := settingsService.Validate(); err != nil {
		v.Problem = err.Error()
	}
	return v
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	v := newSettingsView(settings)

	if settingsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LLM")
	fmt.Fprintf(w, "  Provider:\t%s\n", settings.LLM.Provider.Description())
	fmt.Fprintf(w, "  Model:\t%s\n", v.Model)
	if v.BaseURL != "" {
		fmt.Fprintf(w, "  Base URL:\t%s\n", v.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		key := v.APIKey
		if key == "" {
			key = "(not set)"
		}
		fmt.Fprintf(w, "  API Key:\t%s\n", key)
	}
	status := "configured"
	if !v.Configured {
		status = "not configured"
	}
	fmt.Fprintf(w, "  Status:\t%s\n", status)
	fmt.Fprintln(w, "Session")
	fmt.Fprintf(w, "  Storage:\t%s\n", v.Storage)
	if v.ConfigDir != "" {
		fmt.Fprintf(w, "  Config directory:\t%s\n", v.ConfigDir)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	cmd.Println()
	if v.Problem != "" {
		cmd.Printf("Warning: %s\n", v.Problem)
		cmd.Println("Run 'docchat settings llm' to fix it.")
		return nil
	}
	cmd.Println("Configuration is valid. Run 'docchat settings check' to test the connection.")
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured
	}

	key, value := args[0], ""
	if len(args) == 2 {
		value = args[1]
	} else if key == keyAPIKey {
		cmd.Print("Enter API key: ")
		value = readSecret(cmd.InOrStdin(), bufio.NewReader(cmd.InOrStdin()))
		cmd.Println()
		if value == "" {
			return errors.New("API key is required")
		}
	}

	if err := settingsService.SetValue(key, value); err != nil {
		return err
	}

	switch {
	case strings.TrimSpace(value) == "":
		cmd.Printf("%s reset to default\n", key)
	case key == keyAPIKey:
		cmd.Printf("%s = %s\n", key, maskAPIKey(value))
	default:
		cmd.Printf("%s = %s\n", key, value)
	}
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured
	}
	in := bufio.NewReader(cmd.InOrStdin())
	providers := domain.AllLLMProviders()

	cmd.Println("Select LLM Provider")
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	provider := providers[parseChoice(readLine(in), len(providers), 1)-1]

	model := domain.DefaultLLMModels()[provider]
	cmd.Printf("Enter model name [%s]: ", model)
	if m := readLine(in); m != "" {
		model = m
	}

	var apiKey string
	if provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readSecret(cmd.InOrStdin(), in)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}
	cmd.Printf("Saved %s (%s).\n", provider.Description(), model)

	return checkConnection(cmd)
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured
	}
	if err := settingsService.Validate(); err != nil {
		return userError(err)
	}
	return checkConnection(cmd)
}

func checkConnection(cmd *cobra.Command) error {
	cmd.Print("Validating configuration... ")
	if err := settingsService.CheckConnection(cmd.Context()); err != nil {
		cmd.Println("FAILED")
		return err
	}
	cmd.Println("OK")
	return nil
}

//nolint:errcheck // a short read yields what was typed so far
func readLine(r *bufio.Reader) string {
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

// parseChoice returns the 1-based menu entry typed by the user, or def
// for blank or out-of-range input.
func parseChoice(input string, n, def int) int {
	v, err := strconv.Atoi(input)
	if err != nil || v < 1 || v > n {
		return def
	}
	return v
}

// readSecret reads a line without echo when in is a terminal and from
// fallback otherwise.
func readSecret(in io.Reader, fallback *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if b, err := term.ReadPassword(int(f.Fd())); err == nil {
			return strings.TrimSpace(string(b))
		}
	}
	return readLine(fallback)
}

// maskAPIKey keeps the first and last four characters of keys long enough
// for that to hide something.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
