package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"artist-platform/internal/config"
	"artist-platform/internal/domains/artist/model"
	"artist-platform/internal/domains/artist/repository"
	"artist-platform/internal/infrastructure/database"
	"artist-platform/internal/infrastructure/events"
	"artist-platform/internal/infrastructure/queue"
	"artist-platform/pkg/container"
)

var (
	leaderboardLimit int
	rebuildAsync     bool
	watchPattern     string
)

// migrateCmd creates the accounts schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the accounts table if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		db := database.NewPostgresDB(dbConfig(cfg))
		if err := db.Connect(ctx); err != nil {
			return err
		}
		defer db.Close()

		if err := repository.Migrate(ctx, db.Pool); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "accounts schema is up to date")
		return nil
	},
}

var fundCmd = &cobra.Command{
	Use:   "fund <key> <lamports>",
	Short: "Credit a wallet from the dev faucet",
	Long: `Credit a wallet with newly minted lamports. Requires LEDGER_FAUCET_ENABLED=true,
which configuration refuses in production.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := model.ParseKey(args[0])
		if err != nil {
			return err
		}
		var req model.AmountRequest
		if _, err := fmt.Sscan(args[1], &req.Amount); err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[1], err)
		}

		return withContainer(cmd.Context(), func(ctx context.Context, c *container.Container) error {
			balance, err := c.ArtistService.Fund(ctx, key, req)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), map[string]string{
				"wallet":   balance.Address.String(),
				"lamports": fmt.Sprint(balance.Lamports),
				"amount":   balance.Amount.String(),
			})
		})
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the top tipped artists",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd.Context(), func(ctx context.Context, c *container.Container) error {
			entries, err := c.ArtistService.Leaderboard(ctx, leaderboardLimit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printResult(cmd.OutOrStdout(), entries)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tARTIST\tTOTAL TIPS")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%s\n", e.Rank, e.Artist, e.Amount.String())
			}
			return w.Flush()
		})
	},
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the leaderboard from stored profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if rebuildAsync {
			enq := queue.NewEnqueuer(queue.RedisOpt(cfg.Redis))
			defer enq.Close()
			if err := enq.EnqueueRebuildLeaderboard(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "rebuild enqueued")
			return nil
		}

		return withContainer(cmd.Context(), func(ctx context.Context, c *container.Container) error {
			if c.Leaderboard == nil {
				return errors.New("redis is not reachable, nothing to rebuild")
			}
			n, err := c.ArtistService.RebuildLeaderboard(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "leaderboard rebuilt with %d artists\n", n)
			return nil
		})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print ledger events as they are published",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.NATS.URL == "" {
			return errors.New("NATS_URL is not set")
		}
		conn, err := events.Connect(cfg.NATS.URL, "artistctl")
		if err != nil {
			return err
		}
		defer conn.Close()

		out := cmd.OutOrStdout()
		sub, err := events.NewNATSPublisher(conn, cfg.NATS.SubjectPrefix).Subscribe(watchPattern, func(e model.Event) {
			if jsonOutput {
				_ = printResult(out, e)
				return
			}
			fmt.Fprintf(out, "%s  %-18s artist=%s actor=%s amount=%d\n",
				e.OccurredAt.Format(time.RFC3339), e.Type, e.Artist.Short(), e.Actor.Short(), e.Amount)
		})
		if err != nil {
			return err
		}
		defer sub.Unsubscribe()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().IntVar(&leaderboardLimit, "limit", 10, "Number of artists to show")
	rebuildCmd.Flags().BoolVar(&rebuildAsync, "async", false, "Enqueue the rebuild for the worker instead of running it here")
	watchCmd.Flags().StringVar(&watchPattern, "subject", ">", "Event subject pattern, e.g. artist.* or work.liked")

	leaderboardCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(migrateCmd, fundCmd, leaderboardCmd, watchCmd)
}

func withContainer(ctx context.Context, fn func(ctx context.Context, c *container.Container) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := container.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Cleanup()
	return fn(ctx, c)
}

func dbConfig(cfg *config.Config) *database.DBConfig {
	return &database.DBConfig{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		Username:       cfg.Database.User,
		Password:       cfg.Database.Password,
		DBName:         cfg.Database.Database,
		SSLMode:        cfg.Database.SSLMode,
		MaxConns:       2,
		MinConns:       0,
		MaxRetries:     cfg.Database.MaxRetries,
		RetryDelay:     cfg.Database.RetryDelay,
		ConnectTimeout: cfg.Database.ConnectTimeout,
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
