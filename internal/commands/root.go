// Package commands provides CLI commands for groqchat.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diogo/groqchat/internal/api"
	"github.com/diogo/groqchat/internal/config"
	"github.com/diogo/groqchat/internal/logging"
	"github.com/diogo/groqchat/internal/models"
	"github.com/diogo/groqchat/internal/session"
	"github.com/diogo/groqchat/internal/tui"
)

// APIKeyEnv is the environment variable holding the Groq API key
const APIKeyEnv = "GROQ_API_KEY"

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// options holds the parsed command line flags
type options struct {
	model       string
	temperature float64
	maxTokens   int
	apiKey      string
	output      string
	file        string
	raw         bool
}

// reportedError marks an error that was already printed to the user
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func isReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// NewRootCmd creates the root command and its subcommands
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "groqchat [prompt]",
		Short: "Chat with Groq hosted models from the terminal",
		Long: `groqchat is a terminal client for the Groq chat completion API.
It keeps the conversation in memory and sends the whole transcript
with every message.

The API key is read from --api-key or GROQ_API_KEY and is never saved.

Examples:
  groqchat chat                         Start interactive chat
  groqchat config                       Configure defaults
  groqchat models                       List available models
  groqchat "What is Go?"                Send a single query
  groqchat -f prompt.md                 Read prompt from file
  cat prompt.md | groqchat              Read prompt from stdin
  groqchat "Hello" -o response.md       Save response to file`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Check for version flag
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "groqchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			// Check for file input
			if opts.file != "" {
				data, err := os.ReadFile(opts.file)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				return runQuery(cmd, deps, opts, string(data), true)
			}

			// Check for stdin
			if deps.StdinPiped() {
				data, err := io.ReadAll(deps.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				return runQuery(cmd, deps, opts, string(data), false)
			}

			// Check for positional argument
			if len(args) > 0 {
				return runQuery(cmd, deps, opts, args[0], true)
			}

			// No input - show help
			return cmd.Help()
		},
	}

	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.model, "model", "m", "", "Model to use (e.g., "+models.DefaultModel.ID+")")
	pf.Float64VarP(&opts.temperature, "temperature", "t", models.DefaultTemperature,
		fmt.Sprintf("Sampling temperature (%.1f-%.1f)", models.MinTemperature, models.MaxTemperature))
	pf.IntVar(&opts.maxTokens, "max-tokens", models.DefaultMaxTokens,
		fmt.Sprintf("Maximum tokens in the reply (%d-%d)", models.MinMaxTokens, models.MaxMaxTokens))
	pf.StringVar(&opts.apiKey, "api-key", "", "Groq API key (default $"+APIKeyEnv+")")

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save response to file")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print only the reply text")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	// Add subcommands
	cmd.AddCommand(newChatCmd(deps, opts))
	cmd.AddCommand(NewConfigCmd(deps))
	cmd.AddCommand(newModelsCmd(deps, opts))

	return cmd
}

var rootCmd = NewRootCmd(nil)

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if !isReported(err) {
			fmt.Fprintln(os.Stderr, tui.FormatError(err))
		}
		os.Exit(1)
	}
}

// loadConfig returns the user configuration, falling back to defaults
func loadConfig(deps *Dependencies) config.Config {
	cfg, err := deps.LoadConfig()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "Warning: %v (using defaults)\n", err)
	}
	return cfg
}

// requestConfig builds the sampling settings from the configuration and
// any flags given on the command line. Flags are validated and sent as
// given, never clamped or rounded.
func requestConfig(cmd *cobra.Command, opts *options, cfg config.Config) (models.RequestConfig, error) {
	rc := cfg.RequestConfig()

	if opts.model != "" {
		if _, ok := models.ModelFromID(opts.model); !ok {
			return rc, fmt.Errorf("unknown model %q (available: %s)", opts.model, strings.Join(models.ModelIDs(), ", "))
		}
		rc.Model = opts.model
	}
	if cmd.Flags().Changed("temperature") {
		rc.Temperature = opts.temperature
	}
	if cmd.Flags().Changed("max-tokens") {
		rc.MaxTokens = opts.maxTokens
	}

	if err := rc.Validate(); err != nil {
		return rc, fmt.Errorf("invalid settings: %w", err)
	}
	return rc, nil
}

// resolveCredential returns the API key from the flag or the environment.
// With prompt set and a terminal on stdin it asks for the key.
func resolveCredential(deps *Dependencies, opts *options, prompt bool) (string, error) {
	if key := strings.TrimSpace(opts.apiKey); key != "" {
		return key, nil
	}
	if key := strings.TrimSpace(deps.Getenv(APIKeyEnv)); key != "" {
		return key, nil
	}
	if !prompt || !deps.StdinTerminal() {
		return "", nil
	}

	fmt.Fprint(deps.Stderr, "Groq API key: ")
	key, err := deps.ReadPassword()
	fmt.Fprintln(deps.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return strings.TrimSpace(key), nil
}

// newChatSession wires a client, a fresh session and the logger together.
// The returned cleanup closes the client and the log file.
func newChatSession(deps *Dependencies, rc models.RequestConfig, key string, verbose bool) (*api.ChatSession, func(), error) {
	logger, logCloser, err := logging.Open(verbose)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "Warning: %v\n", err)
	}

	client, err := deps.NewClient(api.WithLogger(logger))
	if err != nil {
		logCloser.Close()
		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}

	store := session.New()
	store.SetCredential(key)
	store.Subscribe(logging.SessionObserver(logger, store.ID()))
	logSessionStart(logger, store, rc)

	cleanup := func() {
		closeClient(client)
		logCloser.Close()
	}
	return api.NewChatSession(client, store, rc), cleanup, nil
}

func logSessionStart(logger zerolog.Logger, store *session.Session, rc models.RequestConfig) {
	logger.Info().
		Str("session", store.ID()).
		Str("model", rc.Model).
		Float64("temperature", rc.Temperature).
		Int("max_tokens", rc.MaxTokens).
		Bool("api_key_set", store.HasCredential()).
		Msg("session started")
}
