package cmd

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"github.com/zhubert/followup/internal/app"
	"github.com/zhubert/followup/internal/clipboard"
	"github.com/zhubert/followup/internal/config"
	"github.com/zhubert/followup/internal/logger"
	"github.com/zhubert/followup/internal/transcript"
)

var (
	debugMode             bool
	quietMode             bool
	configPath            string
	transcriptPath        string
	watchTranscript       bool
	persistTranscript     bool
	notifyDone            bool
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "followup",
	Short: "Ask follow-up questions about any part of a chat answer",
	Long: `followup shows a chat transcript in the terminal. Drag across part of a
finished assistant answer and a "Follow up" control appears next to it;
activating it (click or ctrl+f) puts Follow up on: "<selection>" in the
prompt, ready to edit and send.

Without --transcript a built-in demo conversation is shown.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", true, "Enable debug logging (on by default)")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.followup/config.toml, or $FOLLOWUP_CONFIG)")
	rootCmd.Flags().StringVarP(&transcriptPath, "transcript", "t", "", "Transcript JSON file to show")
	rootCmd.Flags().BoolVarP(&watchTranscript, "watch", "w", false, "Reload the transcript when the file changes")
	rootCmd.Flags().BoolVar(&persistTranscript, "persist", false, "Append submitted prompts to the transcript file")
	rootCmd.Flags().BoolVar(&notifyDone, "notify", false, "Desktop notification when a watched answer finishes")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	// Set version dynamically
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("followup %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("followup %s\n", version)
}

// loadConfig reads --config when given, otherwise the default location.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// loadTranscript reads --transcript, or returns the demo conversation.
func loadTranscript() (*transcript.Transcript, error) {
	if transcriptPath == "" {
		return transcript.Demo(), nil
	}
	return transcript.Load(transcriptPath)
}

// appOptions validates the flag combination and builds the app options.
func appOptions(tr *transcript.Transcript) (app.Options, error) {
	if transcriptPath == "" && (watchTranscript || persistTranscript) {
		return app.Options{}, fmt.Errorf("--watch and --persist need --transcript")
	}
	if notifyDone && !watchTranscript {
		return app.Options{}, fmt.Errorf("--notify needs --watch")
	}
	return app.Options{
		Transcript: tr,
		Path:       transcriptPath,
		Persist:    persistTranscript,
		Notify:     notifyDone,
	}, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Ensure logger is closed on exit
	defer logger.Close()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	tr, err := loadTranscript()
	if err != nil {
		return fmt.Errorf("error loading transcript: %w", err)
	}

	opts, err := appOptions(tr)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if watchTranscript {
		updates, err := transcript.Watch(ctx, transcriptPath, transcript.DefaultWatchDebounce)
		if err != nil {
			return fmt.Errorf("error watching transcript: %w", err)
		}
		opts.Updates = updates
	}

	// Copy still works through OSC 52 when there is no native clipboard.
	if err := clipboard.Init(); err != nil {
		logger.Warn("Clipboard unavailable: %v", err)
	}

	logger.Info("Starting followup %s (transcript=%q, watch=%v)", version, transcriptPath, watchTranscript)

	// Create and run the app
	m := app.New(cfg, opts)
	defer m.Close()
	p := tea.NewProgram(m, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
