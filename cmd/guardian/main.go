package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/eljasus/guardian/internal/moderation"
	"github.com/eljasus/guardian/internal/moderation/enum"
	"github.com/eljasus/guardian/internal/moderation/types"
	"github.com/eljasus/guardian/internal/setup"
	"github.com/eljasus/guardian/pkg/utils"
)

var errMissingMessage = errors.New("a message to scan is required")

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "guardian",
		Usage: "Chat moderation tooling for El Jasus",
		Commands: []*cli.Command{
			{
				Name:  "scan",
				Usage: "Run one message through the escalation engine",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "user",
						Aliases: []string{"u"},
						Usage:   "User identifier (empty for anonymous)",
					},
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Display name for the admin lookup index",
					},
					&cli.StringFlag{
						Name:     "message",
						Aliases:  []string{"m"},
						Usage:    "Message text to scan",
						Required: true,
					},
				},
				Action: scanAction,
			},
			{
				Name:  "ban",
				Usage: "Manually ban a user",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "Target user identifier",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Display name for the admin lookup index",
					},
					&cli.StringFlag{
						Name:    "reason",
						Aliases: []string{"r"},
						Usage:   "Ban reason",
					},
					&cli.StringFlag{
						Name:    "category",
						Aliases: []string{"c"},
						Value:   enum.CategoryAdminDecision.String(),
						Usage:   "Offense category",
					},
					&cli.DurationFlag{
						Name:    "duration",
						Aliases: []string{"d"},
						Usage:   "Ban duration (0 for the default)",
					},
					&cli.BoolFlag{
						Name:    "permanent",
						Aliases: []string{"p"},
						Usage:   "Issue a permanent ban",
					},
					&cli.StringFlag{
						Name:  "admin",
						Value: "operator",
						Usage: "Admin identifier recorded on the ban",
					},
				},
				Action: banAction,
			},
			{
				Name:  "unban",
				Usage: "Lift a user's active ban",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "Target user identifier",
						Required: true,
					},
				},
				Action: unbanAction,
			},
			{
				Name:  "status",
				Usage: "Show a user's offense history and active ban",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "Target user identifier",
						Required: true,
					},
				},
				Action: statusAction,
			},
			{
				Name:  "watch",
				Usage: "Follow a user's ban state in real time",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "User identifier to follow",
						Required: true,
					},
				},
				Action: watchAction,
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

func scanAction(ctx context.Context, c *cli.Command) error {
	app, err := setup.InitializeApp()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup()

	message := c.String("message")
	if message == "" {
		return errMissingMessage
	}

	session := moderation.NewSession(moderation.SessionParams{
		UserID:      c.String("user"),
		DisplayName: c.String("name"),
		Store:       app.Store,
		Cache:       app.Cache,
		Notifier:    &consoleNotifier{},
		Config:      &app.Config.Moderation,
		Logger:      app.Logger,
	})

	if session.CheckOnStart(ctx) {
		fmt.Println("blocked: user has an active ban")
		return nil
	}

	if session.Scan(ctx, message) {
		fmt.Println("blocked")
	} else {
		fmt.Println("clean")
	}

	return nil
}

func banAction(ctx context.Context, c *cli.Command) error {
	app, err := setup.InitializeApp()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup()

	category, err := enum.CategoryString(c.String("category"))
	if err != nil {
		return err
	}

	durationMs := c.Duration("duration").Milliseconds()
	if c.Bool("permanent") {
		durationMs = utils.PermanentMs
	}

	admin := moderation.NewAdmin(app.Store, &app.Config.Moderation, app.Logger)

	record, err := admin.BanUser(ctx, c.String("user"), c.String("name"),
		c.String("reason"), category, durationMs, c.String("admin"))
	if err != nil {
		return err
	}

	printRecord(record)

	return nil
}

func unbanAction(ctx context.Context, c *cli.Command) error {
	app, err := setup.InitializeApp()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup()

	admin := moderation.NewAdmin(app.Store, &app.Config.Moderation, app.Logger)

	if err := admin.LiftBan(ctx, c.String("user")); err != nil {
		return err
	}

	fmt.Println("ban lifted")

	return nil
}

func statusAction(ctx context.Context, c *cli.Command) error {
	app, err := setup.InitializeApp()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup()

	admin := moderation.NewAdmin(app.Store, &app.Config.Moderation, app.Logger)

	history, active, err := admin.Profile(ctx, c.String("user"))
	if err != nil {
		return err
	}

	fmt.Printf("warnings:   %d\n", history.WarningCount)
	fmt.Printf("total bans: %d\n", history.TotalBans)

	if history.LastBanAtMs > 0 {
		fmt.Printf("last ban:   %s (%s)\n", utils.FormatMs(history.LastBanAtMs), history.LastBanReason)
	}

	if active != nil {
		fmt.Println("active ban:")
		printRecord(active)
	} else {
		fmt.Println("no active ban")
	}

	return nil
}

func watchAction(ctx context.Context, c *cli.Command) error {
	app, err := setup.InitializeApp()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup()

	session := moderation.NewSession(moderation.SessionParams{
		UserID:   c.String("user"),
		Store:    app.Store,
		Notifier: &consoleNotifier{},
		Config:   &app.Config.Moderation,
		Logger:   app.Logger,
	})

	session.Attach(ctx)
	defer session.Detach()

	fmt.Printf("watching %s, press Ctrl+C to stop\n", c.String("user"))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case <-stop:
	}

	return nil
}

// consoleNotifier renders moderation events on stdout in place of the game's
// presentation layer.
type consoleNotifier struct{}

func (*consoleNotifier) Warned(count int, lastWarning bool) {
	if lastWarning {
		fmt.Printf("warning %d recorded: the next offense results in a ban\n", count)
		return
	}

	fmt.Printf("warning %d recorded\n", count)
}

func (*consoleNotifier) Banned(record *types.BanRecord) {
	printRecord(record)
}

func (*consoleNotifier) Unbanned() {
	fmt.Println("ban lifted, account unlocked")
}

func printRecord(record *types.BanRecord) {
	fmt.Printf("banned:    %s\n", record.Reason)
	fmt.Printf("category:  %s\n", record.Category)
	fmt.Printf("issued by: %s\n", record.IssuedBy)
	fmt.Printf("issued at: %s\n", utils.FormatMs(record.BannedAtMs))

	if record.Permanent {
		fmt.Println("expires:   never (permanent)")
	} else {
		remaining := time.Duration(record.RemainingMs(utils.NowMs())) * time.Millisecond
		fmt.Printf("expires:   %s (%s remaining)\n",
			utils.FormatMs(record.ExpiresAtMs), remaining.Round(time.Minute))
	}

	fmt.Printf("ban count: %d\n", record.BanCount)
}
