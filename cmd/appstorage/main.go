package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hupe1980/appstorage"
	"github.com/hupe1980/appstorage/internal/config"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "appstorage",
		Usage: "Inspect and modify app storage roots with collision-aware creates",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Sources: cli.EnvVars("APPSTORAGE_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Root to operate on: local, roaming, temp, or a name from the config",
				Sources: cli.EnvVars("APPSTORAGE_ROOT"),
			},
			&cli.StringFlag{
				Name:    "app",
				Aliases: []string{"a"},
				Usage:   "App name the root belongs to",
				Value:   "appstorage",
				Sources: cli.EnvVars("APPSTORAGE_APP"),
			},
			&cli.StringFlag{
				Name:    "policy",
				Aliases: []string{"p"},
				Usage:   "Collision policy for creates: fail-if-exists, replace-existing, open-if-exists, generate-unique-name",
				Value:   "fail-if-exists",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List entries of a folder",
				ArgsUsage: "[path]",
				Action:    runLs,
			},
			{
				Name:      "cat",
				Usage:     "Print the content of a file",
				ArgsUsage: "<path>",
				Action:    runCat,
			},
			{
				Name:      "write",
				Usage:     "Create a file and write stdin (or the given text) into it",
				ArgsUsage: "<path> [text]",
				Action:    runWrite,
			},
			{
				Name:      "mkdir",
				Usage:     "Create a folder",
				ArgsUsage: "<path>",
				Action:    runMkdir,
			},
			{
				Name:      "rm",
				Usage:     "Delete a file or folder (folders recursively)",
				ArgsUsage: "<path>",
				Action:    runRm,
			},
			{
				Name:      "mv",
				Usage:     "Rename a file or folder within its parent",
				ArgsUsage: "<path> <new-name>",
				Action:    runMv,
			},
			{
				Name:      "cp",
				Usage:     "Copy the contents of one folder into another",
				ArgsUsage: "<src-path> <dst-path>",
				Action:    runCp,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("appstorage error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// openRoot loads the configuration and opens the selected root folder.
func openRoot(ctx context.Context, cmd *cli.Command) (*appstorage.Folder, error) {
	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		if err := config.Load(path, cfg); err != nil {
			return nil, err
		}
	}

	opts := []appstorage.Option{
		appstorage.WithLogger(appstorage.NewTextLogger(cfg.Level())),
		appstorage.WithLimits(cfg.Limits.MaxConcurrentOps, cfg.Limits.OpsPerSec),
	}

	name := cmd.String("root")
	if name == "" {
		name = cfg.DefaultRoot
	}
	app := cmd.String("app")

	switch name {
	case "local":
		return appstorage.AppLocal(ctx, app, opts...)
	case "roaming":
		return appstorage.Roaming(ctx, app, opts...)
	case "temp":
		return appstorage.Temp(ctx, app, opts...)
	default:
		base, ok := cfg.Roots[name]
		if !ok {
			return nil, fmt.Errorf("unknown root %q", name)
		}
		return appstorage.Open(ctx, base, opts...)
	}
}

func policyFlag(cmd *cli.Command) (appstorage.CollisionPolicy, error) {
	return appstorage.ParseCollisionPolicy(cmd.String("policy"))
}

// splitPath breaks a slash-separated argument into name segments.
func splitPath(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
}

// walkFolder descends from root through the given segments.
func walkFolder(ctx context.Context, root *appstorage.Folder, segments []string) (*appstorage.Folder, error) {
	folder := root
	for _, seg := range segments {
		next, err := folder.Folder(ctx, seg)
		if err != nil {
			return nil, err
		}
		folder = next
	}
	return folder, nil
}

// parentAndName resolves the folder containing the last segment of p.
func parentAndName(ctx context.Context, root *appstorage.Folder, p string) (*appstorage.Folder, string, error) {
	segments := splitPath(p)
	if len(segments) == 0 {
		return nil, "", fmt.Errorf("empty path")
	}
	parent, err := walkFolder(ctx, root, segments[:len(segments)-1])
	if err != nil {
		return nil, "", err
	}
	return parent, segments[len(segments)-1], nil
}

func runLs(ctx context.Context, cmd *cli.Command) error {
	root, err := openRoot(ctx, cmd)
	if err != nil {
		return err
	}
	folder, err := walkFolder(ctx, root, splitPath(cmd.Args().Get(0)))
	if err != nil {
		return err
	}

	folders, err := folder.Folders(ctx)
	if err != nil {
		return err
	}
	for _, f := range folders {
		fmt.Printf("%s/\n", f.Name())
	}
	files, err := folder.Files(ctx)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Println(f.Name())
	}
	return nil
}

func runCat(ctx context.Context, cmd *cli.Command) error {
	root, err := openRoot(ctx, cmd)
	if err != nil {
		return err
	}
	parent, name, err := parentAndName(ctx, root, cmd.Args().Get(0))
	if err != nil {
		return err
	}
	file, err := parent.File(ctx, name)
	if err != nil {
		return err
	}
	text, err := file.ReadAllText(ctx)
	if err != nil {
		return err
	}
	fmt.Print(text)
	return nil
}

func runWrite(ctx context.Context, cmd *cli.Command) error {
	root, err := openRoot(ctx, cmd)
	if err != nil {
		return err
	}
	policy, err := policyFlag(cmd)
	if err != nil {
		return err
	}
	parent, name, err := parentAndName(ctx, root, cmd.Args().Get(0))
	if err != nil {
		return err
	}

	text := cmd.Args().Get(1)
	if cmd.Args().Len() < 2 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		text = string(data)
	}

	file, err := parent.CreateFile(ctx, name, policy)
	if err != nil {
		return err
	}
	if err := file.WriteAllText(ctx, text); err != nil {
		return err
	}
	fmt.Println(file.Path())
	return nil
}

func runMkdir(ctx context.Context, cmd *cli.Command) error {
	root, err := openRoot(ctx, cmd)
	if err != nil {
		return err
	}
	policy, err := policyFlag(cmd)
	if err != nil {
		return err
	}
	parent, name, err := parentAndName(ctx, root, cmd.Args().Get(0))
	if err != nil {
		return err
	}
	folder, err := parent.CreateFolder(ctx, name, policy)
	if err != nil {
		return err
	}
	fmt.Println(folder.Path())
	return nil
}

func runRm(ctx context.Context, cmd *cli.Command) error {
	root, err := openRoot(ctx, cmd)
	if err != nil {
		return err
	}
	parent, name, err := parentAndName(ctx, root, cmd.Args().Get(0))
	if err != nil {
		return err
	}
	if file, err := parent.File(ctx, name); err == nil {
		return file.Delete(ctx)
	}
	folder, err := parent.Folder(ctx, name)
	if err != nil {
		return err
	}
	return folder.Delete(ctx)
}

func runMv(ctx context.Context, cmd *cli.Command) error {
	root, err := openRoot(ctx, cmd)
	if err != nil {
		return err
	}
	policy, err := policyFlag(cmd)
	if err != nil {
		return err
	}
	parent, name, err := parentAndName(ctx, root, cmd.Args().Get(0))
	if err != nil {
		return err
	}
	newName := cmd.Args().Get(1)
	if newName == "" {
		return fmt.Errorf("missing new name")
	}

	if file, err := parent.File(ctx, name); err == nil {
		renamed, err := file.Rename(ctx, newName, policy)
		if err != nil {
			return err
		}
		fmt.Println(renamed.Path())
		return nil
	}
	folder, err := parent.Folder(ctx, name)
	if err != nil {
		return err
	}
	renamed, err := folder.Rename(ctx, newName, policy)
	if err != nil {
		return err
	}
	fmt.Println(renamed.Path())
	return nil
}

func runCp(ctx context.Context, cmd *cli.Command) error {
	root, err := openRoot(ctx, cmd)
	if err != nil {
		return err
	}
	policy, err := policyFlag(cmd)
	if err != nil {
		return err
	}
	src, err := walkFolder(ctx, root, splitPath(cmd.Args().Get(0)))
	if err != nil {
		return err
	}
	dst, err := walkFolder(ctx, root, splitPath(cmd.Args().Get(1)))
	if err != nil {
		return err
	}
	return src.CopyTo(ctx, dst, policy)
}
