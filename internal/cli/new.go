package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skillreg/internal/template"
	"github.com/klauern/skillreg/internal/ui"
	"github.com/klauern/skillreg/internal/util"
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "Scaffold a new skill directory",
		UsageText: "skillreg new [options] <id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "Trigger/usage description for the skill (required)",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Human-readable title (defaults to the id)",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Skill root to create the skill under (defaults to the first configured root)",
			},
			&cli.StringFlag{
				Name:  "license",
				Usage: "License identifier to record in front matter",
			},
			&cli.BoolFlag{
				Name:  "always-apply",
				Usage: "Mark the skill foundational (included in every selection)",
			},
			&cli.BoolFlag{
				Name:  "references",
				Usage: "Also create a references/ directory with a starter file",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("new requires exactly 1 argument: <id>")
			}

			root := cmd.String("dir")
			if root == "" {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				roots := cfg.ExpandedRoots()
				if len(roots) == 0 {
					return errors.New("no skill roots configured; pass --dir")
				}
				root = roots[0]
			} else {
				root = util.ExpandPath(root)
			}

			dir, err := template.Generate(root, template.Data{
				ID:             cmd.Args().Get(0),
				Name:           cmd.String("name"),
				Description:    cmd.String("description"),
				License:        cmd.String("license"),
				AlwaysApply:    cmd.Bool("always-apply"),
				WithReferences: cmd.Bool("references"),
			})
			if err != nil {
				return err
			}

			fmt.Println(ui.StatusSuccess(fmt.Sprintf("created %s", dir)))
			return nil
		},
	}
}
