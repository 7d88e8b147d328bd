// Package main is the entry point for the relay CLI. Relay routes each user
// message through intent classification, an optional web-search stage, and
// response generation, keeping per-session conversation history.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/calebwray/relay/internal/config"
	"github.com/calebwray/relay/internal/llm"
	"github.com/calebwray/relay/internal/orchestrator"
	"github.com/calebwray/relay/internal/respond"
	"github.com/calebwray/relay/internal/router"
	"github.com/calebwray/relay/internal/tools"
)

var (
	version = "0.1.0"
	cfgPath string
	verbose bool
)

// Turn budget: classification + extraction + search + response.
const turnTimeout = 3 * time.Minute

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	replyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func main() {
	if termenv.EnvNoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	rootCmd := &cobra.Command{
		Use:   "relay",
		Short: "Relay - intent-routed conversational assistant",
		Long: `Relay answers conversational messages, deciding per message whether to
search the web before replying.

Start interactive mode:  relay
One-shot question:       relay ask "who is the president?"`,
		SilenceUsage: true,
		RunE:         runInteractive,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.relay/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("relay v%s\n", version)
		},
	})

	rootCmd.AddCommand(askCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup resolves configuration and wires the pipeline. Everything external is
// read exactly once here; constructors receive immutable values.
func setup() (*orchestrator.Session, zerolog.Logger, error) {
	var cfg *config.Config
	var err error
	if cfgPath != "" {
		cfg, err = config.LoadFromPath(cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	client := llm.NewClient(llm.ClientConfig{
		Endpoint: cfg.Endpoint,
		APIKey:   cfg.APIKey,
	})

	// The cheap deterministic invoker is shared by the classifier and the
	// query extractor; it serializes its own calls. The response stage gets
	// its own invoker with its own sampling configuration.
	cheap := llm.NewInvoker(client, llm.DeterministicConfig(cfg.RouterModel), log)
	creative := llm.NewInvoker(client, llm.CreativeConfig(cfg.ResponseModel), log)

	var searcher tools.Searcher
	if cfg.SearchAPIKey != "" {
		searcher = tools.NewTavilyClient(cfg.SearchAPIKey)
	} else {
		log.Info().Msg("no search API key configured, using canned search results")
		searcher = tools.NewStaticSearcher("<web_search_results>\n  <sources>\n  </sources>\n</web_search_results>")
	}

	session := orchestrator.NewSession(
		router.NewClassifier(cheap, log),
		respond.NewGenerator(creative, log),
		orchestrator.WithToolStage(router.IntentSearch, tools.NewSearchStage(cheap, searcher, log)),
		orchestrator.WithLogger(log),
	)
	return session, log, nil
}

// runInteractive reads line-delimited messages from stdin until EOF. A failed
// responding stage ends the session with a non-zero exit; classification and
// tool failures are absorbed upstream and never surface here.
func runInteractive(cmd *cobra.Command, args []string) error {
	session, log, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Debug().Str("session", session.ID()).Msg("interactive session started")
	fmt.Println("relay — type a message, Ctrl-D to exit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("you › "))
		if !scanner.Scan() {
			break
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}

		turnCtx, cancel := context.WithTimeout(ctx, turnTimeout)
		reply, err := session.Process(turnCtx, message)
		cancel()
		if err != nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("error: %v", err)))
			return err
		}
		fmt.Println(replyStyle.Render(reply))

		if ctx.Err() != nil {
			break
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [message]",
		Short: "Ask a single question (one-shot query)",
		Long: `Ask one question and print the reply.

Examples:
  relay ask "hello there!"
  relay ask "who is the president?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")

			session, _, err := setup()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
			defer cancel()

			reply, err := session.Process(ctx, message)
			if err != nil {
				return fmt.Errorf("failed to process: %w", err)
			}

			fmt.Println(reply)
			return nil
		},
	}
}
