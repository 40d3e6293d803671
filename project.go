package main

import (
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/timetraveler314/SysY-Compiler/lib/project"
	"github.com/timetraveler314/SysY-Compiler/util"
)

func init() {
	commands = append(commands, &cli.Command{
		Name:     "init",
		Usage:    "Initialize a new SysY project",
		Category: "project",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "The name of the project",
			},
			&cli.StringFlag{
				Name:    "main",
				Aliases: []string{"m"},
				Usage:   "The main file of the project",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Accept all defaults without prompting",
			},
		},
		Action: initProject,
	})
}

func initProject(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return cli.Exit(color.RedString("Error creating project directory: %s", err), 1)
	}

	var conf project.Conf
	conf.CreateDefault(filepath.Base(dir))
	if name := c.String("name"); name != "" {
		conf.Name = name
	}
	if main := c.String("main"); main != "" {
		conf.Main = main
	}
	if !c.Bool("yes") {
		conf.Name = util.PromptString("Project name", conf.Name)
		conf.Version = util.PromptString("Version", conf.Version)
		conf.Main = util.PromptString("Main file", conf.Main)
		conf.Author = util.PromptString("Author", conf.Author)
	}

	srcDir := filepath.Join(dir, filepath.Dir(conf.Main))
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		return cli.Exit(color.RedString("Error creating source directory: %s", err), 1)
	}

	mainPath := filepath.Join(dir, conf.Main)
	if _, err := os.Stat(mainPath); os.IsNotExist(err) {
		starter := "int main() {\n    putint(0);\n    return 0;\n}\n"
		if err := os.WriteFile(mainPath, []byte(starter), 0644); err != nil {
			return cli.Exit(color.RedString("Error writing starter file: %s", err), 1)
		}
	}

	if err := conf.Save(filepath.Join(dir, project.ConfFileName), c.Bool("yes")); err != nil {
		return cli.Exit(color.RedString("Error saving project config: %s", err), 1)
	}

	color.Green("Initialized project %s", conf.Name)
	return nil
}
