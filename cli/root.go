package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"redbook_copy_assistant/config"
	"redbook_copy_assistant/generator"
	"redbook_copy_assistant/profile"
)

// options 是所有子命令共享的全局参数。
type options struct {
	configPath string
	debug      bool
	mock       bool
	profileDir string

	apiKey   string
	endpoint string
	model    string
}

func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "redbook",
		Short: "小红书文案助手",
		Long: `小红书文案助手：从产品参数文本中提取参数表，对照参数校核文案，
按方向生成创作灵感，并按选定灵感润色出带候选标题的成稿。`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config.json (default: ./config.json, ./config, ~/.redbook)")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&opts.mock, "mock", false, "use the built-in mock model instead of a real endpoint")
	flags.StringVar(&opts.profileDir, "profile-dir", "", "directory of the saved API profile")
	flags.StringVar(&opts.apiKey, "api-key", "", "override the saved API key")
	flags.StringVar(&opts.endpoint, "endpoint", "", "override the saved chat completions endpoint")
	flags.StringVar(&opts.model, "model", "", "override the saved model name")
	_ = flags.MarkHidden("profile-dir")

	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newParseCommand(opts))
	rootCmd.AddCommand(newVerifyCommand(opts))
	rootCmd.AddCommand(newInspireCommand(opts))
	rootCmd.AddCommand(newPolishCommand(opts))
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newDirectionsCommand())
	rootCmd.AddCommand(newProfileCommand(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(opts *options) error {
	if opts.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return nil
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return nil
}

func (o *options) store() (*profile.Store, error) {
	if o.profileDir != "" {
		return profile.NewStore(o.profileDir), nil
	}
	return profile.DefaultStore()
}

// resolveAPI 读取保存的配置，再用命令行参数覆盖。
func (o *options) resolveAPI() (generator.APIConfig, error) {
	store, err := o.store()
	if err != nil {
		return generator.APIConfig{}, err
	}
	api, _, err := store.Load()
	if err != nil {
		return generator.APIConfig{}, err
	}
	if o.apiKey != "" {
		api.APIKey = o.apiKey
	}
	if o.endpoint != "" {
		api.Endpoint = o.endpoint
	}
	if o.model != "" {
		api.Model = o.model
	}
	if o.mock && api.APIKey == "" {
		api.APIKey = "mock"
	}
	return api, nil
}

func (o *options) llm() (generator.LLMClient, error) {
	if o.mock {
		return generator.MockLLM{}, nil
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	return generator.NewOpenAILLM(cfg.RequestTimeout), nil
}

func (o *options) agent() (*generator.Agent, error) {
	llm, err := o.llm()
	if err != nil {
		return nil, err
	}
	return generator.NewAgent(llm, log.Logger)
}
