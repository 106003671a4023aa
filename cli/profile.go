package cli

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"redbook_copy_assistant/profile"
)

func newProfileCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the saved API settings",
	}
	cmd.AddCommand(newProfileShowCommand(opts))
	cmd.AddCommand(newProfileSetCommand(opts))
	cmd.AddCommand(newProfileUseCommand(opts))
	return cmd
}

func newProfileShowCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved API settings (key masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.store()
			if err != nil {
				return err
			}
			api, found, err := store.Load()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if !found {
				fmt.Fprintf(w, "尚未保存配置，以下为默认值（%s）\n", store.Path())
			}
			fmt.Fprintf(w, "API Key:  %s\n", profile.Masked(api.APIKey))
			fmt.Fprintf(w, "API 地址: %s\n", api.Endpoint)
			fmt.Fprintf(w, "模型:     %s\n", api.Model)
			return nil
		},
	}
}

func newProfileSetCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "Save --api-key, --endpoint and --model",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.apiKey == "" && opts.endpoint == "" && opts.model == "" {
				return fmt.Errorf("nothing to set: pass --api-key, --endpoint or --model")
			}
			store, err := opts.store()
			if err != nil {
				return err
			}
			api, err := opts.resolveAPI()
			if err != nil {
				return err
			}
			if err := store.Save(api); err != nil {
				return err
			}
			log.Info().Str("file", store.Path()).Msg("profile saved")
			return nil
		},
	}
}

func newProfileUseCommand(opts *options) *cobra.Command {
	names := make([]string, 0, len(profile.Presets()))
	for _, p := range profile.Presets() {
		names = append(names, p.Name)
	}

	return &cobra.Command{
		Use:       "use <" + strings.Join(names, "|") + ">",
		Short:     "Switch to a provider preset, keeping the saved key",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			preset, ok := profile.LookupPreset(args[0])
			if !ok {
				return fmt.Errorf("unknown preset %q (available: %s)", args[0], strings.Join(names, ", "))
			}
			store, err := opts.store()
			if err != nil {
				return err
			}
			api, _, err := store.Load()
			if err != nil {
				return err
			}
			api = preset.Apply(api)
			if err := store.Save(api); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已切换到 %s：%s（%s）\n", preset.Label, api.Endpoint, api.Model)
			return nil
		},
	}
}
