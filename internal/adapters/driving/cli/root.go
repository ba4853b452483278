// Package cli provides the cobra command tree for docchat.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...",
// together with commit and buildDate.
var version = "dev"

// Options carries the persistent flags to the bootstrap function.
type Options struct {
	// ConfigDir overrides ~/.docchat.
	ConfigDir string

	// Ephemeral keeps the session in memory only.
	Ephemeral bool

	// Verbose enables diagnostic logging.
	Verbose bool

	// Interactive is true when the command runs the full-screen UI.
	Interactive bool
}

// Services holds the driving ports used by the commands.
type Services struct {
	Session  driving.SessionService
	Document driving.DocumentService
	Chat     driving.ChatService
	Settings driving.SettingsService

	// ConfigDir is the resolved configuration directory.
	ConfigDir string
}

// BootstrapFunc builds the services for a command invocation. The returned
// cleanup function is called after the command finishes.
type BootstrapFunc func(ctx context.Context, opts Options) (*Services, func(), error)

var (
	sessionService  driving.SessionService
	documentService driving.DocumentService
	chatService     driving.ChatService
	settingsService driving.SettingsService
	configDir       string

	bootstrap BootstrapFunc
	cleanup   func()
)

var (
	flagVerbose   bool
	flagConfigDir string
	flagEphemeral bool
)

// errNotConfigured is returned by commands run without services.
var errNotConfigured = errors.New("services not configured")

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your PDF documents",
	Long: `docchat extracts the text of a PDF locally and answers questions about it
using a hosted language model. Answers cite the pages they come from as [p. N].

Run without a subcommand to open the terminal UI. The session (documents and
conversation) is saved between runs unless --ephemeral is given.`,
	SilenceUsage:      true,
	Annotations:       map[string]string{annotationInteractive: "true"},
	PersistentPostRun: func(*cobra.Command, []string) { Shutdown() },
	RunE:              runTUI,
}

func init() {
	// Set here rather than in the literal so setup may refer to commands.
	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable diagnostic logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default ~/.docchat)")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "do not load or save the session")
}

// SetBootstrap registers the function that builds services before a
// command runs.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices injects services directly, bypassing the bootstrap.
func SetServices(s *Services) {
	if s == nil {
		sessionService, documentService, chatService, settingsService = nil, nil, nil, nil
		configDir = ""
		return
	}
	sessionService = s.Session
	documentService = s.Document
	chatService = s.Chat
	settingsService = s.Settings
	configDir = s.ConfigDir
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// Shutdown releases what the bootstrap acquired. Safe to call twice.
func Shutdown() {
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)
	if bootstrap == nil || cmd.Annotations[annotationNoServices] == "true" {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, done, err := bootstrap(ctx, Options{
		ConfigDir:   flagConfigDir,
		Ephemeral:   flagEphemeral,
		Verbose:     flagVerbose,
		Interactive: cmd.Annotations[annotationInteractive] == "true",
	})
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	SetServices(svc)
	cleanup = done
	return nil
}

// Command annotations read by setup.
const (
	// annotationNoServices marks commands that run without bootstrapping.
	annotationNoServices = "docchat/no-services"
	// annotationInteractive marks commands that take over the terminal.
	annotationInteractive = "docchat/interactive"
)
