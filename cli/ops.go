package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"redbook_copy_assistant/generator"
	"redbook_copy_assistant/importer"
	"redbook_copy_assistant/publisher"
)

// copyFlags are shared by verify, inspire and polish.
type copyFlags struct {
	title       string
	content     string
	contentFile string
	paramsFile  string
}

func (f *copyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "copy title")
	cmd.Flags().StringVar(&f.content, "content", "", "copy body")
	cmd.Flags().StringVar(&f.contentFile, "content-file", "", "read the copy body from a file")
	cmd.Flags().StringVar(&f.paramsFile, "params", "", "JSON file with the verified parameters (as printed by parse)")
}

func (f *copyFlags) load() (generator.ParameterSet, generator.Copy, error) {
	c := generator.Copy{Title: f.title, Content: f.content}
	if f.contentFile != "" {
		b, err := os.ReadFile(f.contentFile)
		if err != nil {
			return nil, c, err
		}
		c.Content = string(b)
	}
	if f.paramsFile == "" {
		return nil, c, nil
	}
	b, err := os.ReadFile(f.paramsFile)
	if err != nil {
		return nil, c, err
	}
	params, err := readParams(b)
	if err != nil {
		return nil, c, fmt.Errorf("%s: %w", f.paramsFile, err)
	}
	return params, c, nil
}

// readParams accepts either a bare parameter object or the {"params": {...}} output of parse.
func readParams(b []byte) (generator.ParameterSet, error) {
	var wrapped struct {
		Params json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(b, &wrapped); err == nil && len(wrapped.Params) > 0 {
		return generator.ParamsFromJSON(wrapped.Params)
	}
	return generator.ParamsFromJSON(b)
}

func newParseCommand(opts *options) *cobra.Command {
	var text, file, xlsx string

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Extract a parameter table from free text",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := parseInput(cmd.InOrStdin(), text, file, xlsx)
			if err != nil {
				return err
			}
			api, err := opts.resolveAPI()
			if err != nil {
				return err
			}
			agent, err := opts.agent()
			if err != nil {
				return err
			}
			params, err := agent.Parse(cmd.Context(), api, input)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"params":     params,
				"categories": generator.GroupByCategory(params),
			})
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "parameter text")
	cmd.Flags().StringVar(&file, "file", "", "read parameter text from a file (- for stdin)")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "read parameters from a two-column .xlsx sheet")
	cmd.MarkFlagsMutuallyExclusive("text", "file", "xlsx")
	return cmd
}

func parseInput(stdin io.Reader, text, file, xlsx string) (string, error) {
	switch {
	case text != "":
		return text, nil
	case file == "-":
		b, err := io.ReadAll(stdin)
		return string(b), err
	case file != "":
		b, err := os.ReadFile(file)
		return string(b), err
	case xlsx != "":
		return importFile(xlsx)
	}
	return "", errors.New("one of --text, --file or --xlsx is required")
}

func newVerifyCommand(opts *options) *cobra.Command {
	var cf copyFlags
	var out string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check copy against the parameters and print the corrected version",
		Long: `Check copy against the parameters and print the corrected version.
Without --params the copy is only polished and no mismatches are reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, c, err := cf.load()
			if err != nil {
				return err
			}
			api, err := opts.resolveAPI()
			if err != nil {
				return err
			}
			agent, err := opts.agent()
			if err != nil {
				return err
			}
			res, err := agent.Verify(cmd.Context(), api, generator.VerifyInput{Params: params, Copy: c})
			if err != nil {
				return err
			}
			md := publisher.VerificationMarkdown(res)
			if out != "" {
				return publisher.WriteFile(out, res.CorrectedTitle, md)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), md)
			return err
		},
	}

	cf.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "write the result to a .md or .html file")
	return cmd
}

func newInspireCommand(opts *options) *cobra.Command {
	var cf copyFlags
	var direction string

	cmd := &cobra.Command{
		Use:   "inspire",
		Short: "Generate creative directions for the copy",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, c, err := cf.load()
			if err != nil {
				return err
			}
			api, err := opts.resolveAPI()
			if err != nil {
				return err
			}
			agent, err := opts.agent()
			if err != nil {
				return err
			}
			list, err := agent.Inspire(cmd.Context(), api, generator.InspireInput{Params: params, Direction: direction, Copy: c})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for i, s := range list {
				fmt.Fprintf(w, "%d. %s\n", i+1, s)
			}
			return nil
		},
	}

	cf.register(cmd)
	cmd.Flags().StringVarP(&direction, "direction", "d", "", "direction key ("+directionKeys()+")")
	return cmd
}

func newPolishCommand(opts *options) *cobra.Command {
	var cf copyFlags
	var direction, inspiration, out string

	cmd := &cobra.Command{
		Use:   "polish",
		Short: "Rewrite the copy for a direction and a chosen inspiration",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, c, err := cf.load()
			if err != nil {
				return err
			}
			api, err := opts.resolveAPI()
			if err != nil {
				return err
			}
			agent, err := opts.agent()
			if err != nil {
				return err
			}
			res, err := agent.Polish(cmd.Context(), api, generator.PolishInput{
				Params:      params,
				Direction:   direction,
				Inspiration: inspiration,
				Copy:        c,
			})
			if err != nil {
				return err
			}
			md := publisher.Markdown(res)
			if out != "" {
				return publisher.WriteFile(out, res.PolishedTitles[0], md)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), md)
			return err
		},
	}

	cf.register(cmd)
	cmd.Flags().StringVarP(&direction, "direction", "d", "", "direction key ("+directionKeys()+")")
	cmd.Flags().StringVarP(&inspiration, "inspiration", "i", "", "the inspiration to follow")
	cmd.Flags().StringVar(&out, "out", "", "write the result to a .md or .html file")
	return cmd
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Convert a two-column sheet into parameter text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := importFile(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func newDirectionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "directions",
		Short: "List the available polish directions",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, d := range generator.Directions() {
				tpl, _ := generator.TemplateFor(d.Key)
				fmt.Fprintf(w, "%-8s %s  %s\n", d.Key, d.Label, d.Description)
				fmt.Fprintf(w, "         结构：%s\n", strings.Join(tpl.Sections, " → "))
			}
			return nil
		},
	}
}

func importFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return importer.SheetToText(f)
}

func directionKeys() string {
	dirs := generator.Directions()
	keys := make([]string, len(dirs))
	for i, d := range dirs {
		keys[i] = d.Key
	}
	return strings.Join(keys, "|")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
