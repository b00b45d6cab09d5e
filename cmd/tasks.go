package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/nibzard/taskboard/internal/app"
	"github.com/nibzard/taskboard/internal/config"
	"github.com/nibzard/taskboard/internal/logging"
	"github.com/nibzard/taskboard/internal/render"
	"github.com/nibzard/taskboard/internal/storage"
	"github.com/nibzard/taskboard/internal/ui"
)

// tuiCommand opens the interactive board. Logs go to a per-run file since
// the terminal belongs to the UI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskboard tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	runLog, err := logging.NewRunLogger(cfg.LogDir)
	if err != nil {
		return err
	}
	defer runLog.Close()
	logger := newLogger(cfg, runLog.Writer())
	logger.Info("session started", "store", cfg.StoreDriver, "path", cfg.StorePath, "key", cfg.StorageKey)

	s, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	return ui.RunTUI(ctx, s.ctrl, renderOptions(cfg))
}

// addCommand creates a pending task from -title/-desc or two positional
// arguments.
func addCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskboard add", flag.ContinueOnError)
	fs.SetOutput(stderr)
	title := fs.String("title", "", "Task title")
	desc := fs.String("desc", "", "Task description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if *title == "" && len(rest) > 0 {
		*title, rest = rest[0], rest[1:]
	}
	if *desc == "" && len(rest) > 0 {
		*desc, rest = rest[0], rest[1:]
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	return withSession(ctx, cfg, func(c *app.Controller) error {
		c.SetForm(*title, *desc)
		t, err := c.Submit(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Added %s: %s\n", t.ID, t.Title)
		return nil
	})
}

// listCommand prints both collections, as text or as the stored JSON shape.
func listCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskboard list", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "Print tasks as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return withSession(ctx, cfg, func(c *app.Controller) error {
		if *asJSON {
			data, err := storage.NewSnapshot(c.Pending(), c.Completed()).Encode()
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, string(data))
			return nil
		}
		opts := renderOptions(cfg)
		fmt.Fprint(stdout, render.RenderList("Pending", render.RenderTasks(c.Pending(), -1, opts)))
		fmt.Fprintln(stdout)
		fmt.Fprint(stdout, render.RenderList("Completed", render.RenderTasks(c.Completed(), -1, opts)))
		return nil
	})
}

// toggleCommand completes or reopens the task with the given ID.
func toggleCommand(ctx context.Context, cfg *config.Config, args []string, completed bool) error {
	id, err := singleID(args)
	if err != nil {
		return err
	}
	return withSession(ctx, cfg, func(c *app.Controller) error {
		t, err := c.Toggle(ctx, id, completed)
		if err != nil {
			return err
		}
		state := "pending"
		if t.IsCompleted {
			state = "completed"
		}
		fmt.Fprintf(stdout, "%s is %s\n", t.ID, state)
		return nil
	})
}

// editCommand changes title and/or description. The ID may come before or
// after the flags.
func editCommand(ctx context.Context, cfg *config.Config, args []string) error {
	var id string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		id, args = args[0], args[1:]
	}
	fs := flag.NewFlagSet("taskboard edit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	title := fs.String("title", "", "New title")
	desc := fs.String("desc", "", "New description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if id == "" && len(rest) > 0 {
		id, rest = rest[0], rest[1:]
	}
	if id == "" {
		return fmt.Errorf("edit requires a task ID")
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}
	if *title == "" && *desc == "" {
		return fmt.Errorf("edit requires -title or -desc")
	}

	return withSession(ctx, cfg, func(c *app.Controller) error {
		t, err := c.Edit(ctx, id, *title, *desc)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Edited %s: %s\n", t.ID, t.Title)
		return nil
	})
}

// deleteCommand removes the task with the given ID.
func deleteCommand(ctx context.Context, cfg *config.Config, args []string) error {
	id, err := singleID(args)
	if err != nil {
		return err
	}
	return withSession(ctx, cfg, func(c *app.Controller) error {
		t, err := c.Delete(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Deleted %s: %s\n", t.ID, t.Title)
		return nil
	})
}

func singleID(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", fmt.Errorf("a task ID is required")
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("unexpected arguments: %v", args[1:])
	}
}
