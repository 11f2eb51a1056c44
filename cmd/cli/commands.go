package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/marcusziade/githubcards/pkg/app"
	"github.com/marcusziade/githubcards/pkg/db"
	"github.com/marcusziade/githubcards/pkg/render"
	"github.com/marcusziade/githubcards/pkg/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var jsonOutput bool

// tuiCmd runs the interactive card app
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Add cards interactively",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

// lookupCmd prints one user's card
var lookupCmd = &cobra.Command{
	Use:   "lookup <username>",
	Short: "Look up a GitHub user and print their card",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the lookup cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached lookups",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

// cacheWarmCmd fetches users ahead of time so later lookups hit the cache
var cacheWarmCmd = &cobra.Command{
	Use:   "warm <username>...",
	Short: "Fetch users into the lookup cache",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCacheWarm,
}

var warmWorkers int

func init() {
	lookupCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cacheListCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cacheWarmCmd.Flags().IntVar(&warmWorkers, "workers", 4, "Concurrent lookups")
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheWarmCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, cache, err := app.FromConfig(cfg, logger)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.Close()
	}

	ctx, stop := signal.NotifyContext(contextOf(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return tui.Run(ctx, a, styles(), tea.WithAltScreen())
}

func runLookup(cmd *cobra.Command, args []string) error {
	c, cache, err := app.NewClient(cfg, logger)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.Close()
	}

	username := args[0]
	profile, err := c.FetchUser(contextOf(cmd), username)
	if err != nil {
		logger.Debug("Lookup failed", zap.String("username", username), zap.Error(err))
		return errors.New(render.ErrorMessage(err, username))
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, profile)
	}
	fmt.Fprintln(out, styles().TermCard(*profile))
	return nil
}

func runCacheList(cmd *cobra.Command, args []string) error {
	if !cfg.Cache.Enabled {
		return errors.New("cache is disabled; set cache.enabled in the config or GHCARDS_CACHE")
	}

	cache, err := db.New(cfg.Cache.Path)
	if err != nil {
		return err
	}
	defer cache.Close()

	if err := cache.InitSchema(); err != nil {
		return err
	}

	lookups, err := cache.List(contextOf(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, lookups)
	}

	if len(lookups) == 0 {
		fmt.Fprintln(out, styles().Status.Render("No cached lookups"))
		return nil
	}

	t := table.New().Headers("USERNAME", "NAME", "COMPANY", "FETCHED")
	for _, l := range lookups {
		t.Row(l.Username, l.Profile.Name, l.Profile.Company, l.FetchedAt.Local().Format(time.DateTime))
	}
	fmt.Fprintln(out, t.Render())
	return nil
}

func runCacheWarm(cmd *cobra.Command, args []string) error {
	if !cfg.Cache.Enabled {
		return errors.New("cache is disabled; set cache.enabled in the config or GHCARDS_CACHE")
	}

	c, cache, err := app.NewClient(cfg, logger)
	if err != nil {
		return err
	}
	defer cache.Close()

	var cached atomic.Int32
	g, ctx := errgroup.WithContext(contextOf(cmd))
	g.SetLimit(max(warmWorkers, 1))
	for _, username := range args {
		username := username // per-iteration copy (go directive < 1.22)
		g.Go(func() error {
			if _, err := c.FetchUser(ctx, username); err != nil {
				// one bad username does not stop the rest
				logger.Warn("Failed to cache user", zap.String("username", username), zap.Error(err))
				return nil
			}
			cached.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Cached %d of %d users\n", cached.Load(), len(args))
	return nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
