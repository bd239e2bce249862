package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/klauern/skillreg/internal/config"
	"github.com/klauern/skillreg/internal/match"
	"github.com/klauern/skillreg/internal/model"
	"github.com/klauern/skillreg/internal/progress"
	"github.com/klauern/skillreg/internal/registry"
	"github.com/klauern/skillreg/internal/ui"
	"github.com/klauern/skillreg/internal/ui/tui"
	"github.com/klauern/skillreg/internal/validation"
)

// buildRegistry loads the registry from the effective configuration.
func buildRegistry(cmd *cli.Command) (*registry.Registry, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	scorer := match.ForName(cfg.Matcher.Algorithm)
	if cfg.Matcher.Algorithm == "jaccard" && cfg.Matcher.NGramSize > 0 {
		scorer = match.NewJaccardScorer(match.JaccardConfig{NGramSize: cfg.Matcher.NGramSize})
	}

	reg, err := registry.Load(cfg.ExpandedRoots(),
		registry.Strict(cfg.Registry.Strict),
		registry.WithScorer(scorer),
		registry.WithThreshold(cfg.Matcher.Threshold),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load registry: %w", err)
	}

	for _, derr := range reg.Report().Errors {
		fmt.Fprintln(os.Stderr, ui.StatusWarning(derr.Error()))
	}

	return reg, cfg, nil
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List discovered skills (metadata tier only)",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			reg, cfg, err := buildRegistry(cmd)
			if err != nil {
				return err
			}

			if cmd.Bool("json") || cfg.Output.Format == "json" {
				defs := make([]model.SkillDefinition, 0, reg.Len())
				for _, id := range reg.IDs() {
					def, _ := reg.Get(id)
					defs = append(defs, def)
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(defs)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				ui.Header("ID"), ui.Header("NAME"), ui.Header("REFS"), ui.Header("DESCRIPTION"))
			for _, id := range reg.IDs() {
				def, _ := reg.Get(id)
				marker := ""
				if def.AlwaysApply {
					marker = " " + ui.Info("*")
				}
				fmt.Fprintf(w, "%s%s\t%s\t%d\t%s\n",
					def.ID, marker, def.Name, len(def.References), truncate(def.Description, 70))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("\n%d skill(s); %s marks foundational skills\n", reg.Len(), ui.Info("*"))
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Load and print a skill's body",
		UsageText: "skillreg show <id>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("show requires exactly 1 argument: <id>")
			}
			id := cmd.Args().Get(0)

			reg, _, err := buildRegistry(cmd)
			if err != nil {
				return err
			}

			def, ok := reg.Get(id)
			if !ok {
				return fmt.Errorf("skill %q not found", id)
			}

			body, err := reg.Body(id)
			if err != nil {
				return err
			}

			fmt.Println(ui.Bold(def.Name))
			fmt.Println(ui.Dim(def.Description))
			if len(def.References) > 0 {
				fmt.Printf("%s %v\n", ui.Dim("references:"), def.References)
			}
			fmt.Println()
			fmt.Println(body)
			return nil
		},
	}
}

func refCommand() *cli.Command {
	return &cli.Command{
		Name:      "ref",
		Usage:     "Load and print one of a skill's reference documents",
		UsageText: "skillreg ref <id> <path>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return errors.New("ref requires exactly 2 arguments: <id> <path>")
			}

			reg, _, err := buildRegistry(cmd)
			if err != nil {
				return err
			}

			content, err := reg.Reference(cmd.Args().Get(0), cmd.Args().Get(1))
			if err != nil {
				return err
			}

			fmt.Println(content)
			return nil
		},
	}
}

func selectCommand() *cli.Command {
	return &cli.Command{
		Name:      "select",
		Usage:     "Select skills relevant to the given task text",
		UsageText: "skillreg select [options] <text>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "loaded",
				Usage: "Skill id already loaded this session (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "scores",
				Usage: "Show relevance scores",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return errors.New("select requires the task text as an argument")
			}

			reg, _, err := buildRegistry(cmd)
			if err != nil {
				return err
			}

			sctx := model.SelectionContext{Text: cmd.Args().Get(0)}
			if loaded := cmd.StringSlice("loaded"); len(loaded) > 0 {
				sctx.Loaded = make(map[string]bool, len(loaded))
				for _, id := range loaded {
					sctx.Loaded[id] = true
				}
			}

			matches := reg.Rank(sctx)
			if len(matches) == 0 {
				fmt.Println(ui.Dim("no matching skills"))
				return nil
			}

			for _, m := range matches {
				switch {
				case cmd.Bool("scores") && m.Foundational:
					fmt.Printf("%s\t%.2f\t%s\n", m.ID, m.Score, ui.Info("foundational"))
				case cmd.Bool("scores"):
					fmt.Printf("%s\t%.2f\n", m.ID, m.Score)
				default:
					fmt.Println(m.ID)
				}
			}
			return nil
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Lint all discovered skills",
		Action: func(_ context.Context, cmd *cli.Command) error {
			reg, _, err := buildRegistry(cmd)
			if err != nil {
				return err
			}

			ids := reg.IDs()
			bar := progress.New(progress.Options{
				Max:         int64(len(ids)),
				Description: "Validating skills",
			})

			failed := 0
			warned := 0
			for _, id := range ids {
				def, _ := reg.Get(id)
				result := validation.ValidateSkill(def)
				_ = bar.Add(1)

				if result.Err() != nil || len(result.Warnings) > 0 {
					_ = bar.Clear()
				}
				for _, verr := range result.Errors {
					failed++
					fmt.Println(ui.StatusError(verr.Error()))
				}
				for _, warning := range result.Warnings {
					warned++
					fmt.Println(ui.StatusWarning(fmt.Sprintf("skill %q: %s", id, warning)))
				}
			}
			_ = bar.Finish()

			discoveryErrs := len(reg.Report().Errors)
			if failed == 0 && discoveryErrs == 0 {
				fmt.Println(ui.StatusSuccess(fmt.Sprintf("%d skill(s) valid, %d warning(s)", len(ids), warned)))
				return nil
			}
			return fmt.Errorf("%d validation error(s), %d skipped skill directories", failed, discoveryErrs)
		},
	}
}

func browseCommand() *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Browse skills interactively",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if !ui.IsInteractive() {
				return errors.New("browse requires an interactive terminal")
			}

			reg, _, err := buildRegistry(cmd)
			if err != nil {
				return err
			}

			defs := make([]model.SkillDefinition, 0, reg.Len())
			for _, id := range reg.IDs() {
				def, _ := reg.Get(id)
				defs = append(defs, def)
			}

			_, err = tui.Run(tui.NewBrowseModel(defs, reg))
			return err
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Display the effective configuration",
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}

			fmt.Printf("# %s\n", config.FilePath())
			fmt.Print(string(data))
			return nil
		},
	}
}

// truncate shortens s for table display.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
