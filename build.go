package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/timetraveler314/SysY-Compiler/lib/analyzer"
	"github.com/timetraveler314/SysY-Compiler/lib/compiler"
	"github.com/timetraveler314/SysY-Compiler/lib/parser"
	"github.com/timetraveler314/SysY-Compiler/lib/project"
)

func init() {
	buildFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "The path to the project directory holding " + project.ConfFileName,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "The path for the emitted LLVM IR file",
		},
		&cli.StringFlag{
			Name:  "emit",
			Value: "llvm",
			Usage: "What to emit: 'llvm' IR or the canonical 'ast' rendering",
		},
		&cli.BoolFlag{
			Name:    "dump-ast",
			Aliases: []string{"d"},
			Usage:   "Dump the AST as JSON next to the output file",
		},
		&cli.BoolFlag{
			Name:  "no-check",
			Usage: "Skip the semantic analyzer (codegen may fail on invalid programs)",
		},
		&cli.StringFlag{
			Name:    "bin",
			Aliases: []string{"b"},
			Usage:   "Also link a native binary at this path (requires clang and the SysY runtime)",
		},
		&cli.StringSliceFlag{
			Name:    "clang-args",
			Aliases: []string{"a"},
			Usage:   "Pass additional arguments to clang when linking",
		},
	}

	commands = append(commands, &cli.Command{
		Name:     "build",
		Usage:    "Compile a SysY file or project",
		Category: "compile",
		Flags:    buildFlags,
		Action:   build,
	}, &cli.Command{
		Name:     "run",
		Usage:    "Compile and run a SysY file or project",
		Category: "compile",
		Flags:    buildFlags,
		Action:   run,
	})
}

func build(c *cli.Context) error {
	_, err := buildFile(c)
	return err
}

func run(c *cli.Context) error {
	bin := c.String("bin")
	if bin == "" {
		tmp, err := os.MkdirTemp("", "sysyc")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)
		bin = filepath.Join(tmp, "a.out")
		if err := c.Set("bin", bin); err != nil {
			return err
		}
	}
	if _, err := buildFile(c); err != nil {
		return err
	}

	cmd := exec.Command(bin)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exit, ok := err.(*exec.ExitError); ok {
			return cli.Exit("", exit.ExitCode())
		}
		return cli.Exit(color.RedString("Error running binary: %s", err), 1)
	}
	return nil
}

// buildFile drives the full pipeline for one source file: parse,
// analyze, lower to LLVM IR, and optionally link a native binary.
func buildFile(c *cli.Context) (string, error) {
	input := c.Args().First()
	var conf project.Conf
	if input == "" {
		dir := c.String("config")
		if dir == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			dir = cwd
		}
		var err error
		conf, err = project.GetConf(dir)
		if err != nil {
			return "", cli.Exit(color.RedString("%s", err), 1)
		}
		input = filepath.Join(dir, conf.Main)
	}

	src, err := os.ReadFile(input)
	if err != nil {
		return "", cli.Exit(color.RedString("%s", errors.Wrap(err, "reading source")), 1)
	}

	ast, err := parser.Parse(string(src))
	if err != nil {
		return "", cli.Exit(color.RedString("%s: %s", input, err), 1)
	}

	if c.String("emit") == "ast" {
		_, err := os.Stdout.WriteString(parser.Print(ast))
		return "", err
	}

	if !c.Bool("no-check") {
		if err := analyzer.Analyze(ast); err != nil {
			return "", cli.Exit(color.RedString("%s: %s", input, err), 1)
		}
	}

	outpath := c.String("output")
	if outpath == "" {
		outpath = strings.TrimSuffix(input, filepath.Ext(input)) + ".ll"
	}

	if c.Bool("dump-ast") {
		if err := dumpAST(ast, outpath+".ast.json"); err != nil {
			return "", cli.Exit(color.RedString("Error dumping AST: %s", err), 1)
		}
	}

	comp := compiler.NewCompiler()
	if err := comp.Compile(ast); err != nil {
		return "", cli.Exit(color.RedString("%s: %s", input, err), 1)
	}

	if err := os.WriteFile(outpath, []byte(comp.Module.String()), 0644); err != nil {
		return "", cli.Exit(color.RedString("%s", errors.Wrap(err, "writing IR")), 1)
	}

	if bin := c.String("bin"); bin != "" {
		args := append([]string{"-o", bin, outpath}, clangFlags(c, conf)...)
		cmd := exec.Command("clang", args...)
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return "", cli.Exit(color.RedString("%s", errors.Wrap(err, "linking with clang")), 1)
		}
		return bin, nil
	}
	return outpath, nil
}

func clangFlags(c *cli.Context, conf project.Conf) []string {
	flags := c.StringSlice("clang-args")
	if conf.Compiler.ClangFlags != "" {
		flags = append(flags, strings.Fields(conf.Compiler.ClangFlags)...)
	}
	if conf.Compiler.Target != "" {
		flags = append(flags, "-target", conf.Compiler.Target)
	}
	return flags
}

func dumpAST(ast *parser.CompUnit, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(ast)
}
