package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/inkinno/projects/internal/adapters/apiclient"
	"github.com/inkinno/projects/internal/contracts"
	"github.com/inkinno/projects/internal/domain"
	"github.com/inkinno/projects/internal/tui"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// .env is optional.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "timeline",
		Usage: "Browse and edit the project timeline from the terminal.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api", Value: "http://localhost:8080", Usage: "timeline API base URL", EnvVars: []string{"TIMELINE_API_URL"}},
			&cli.StringFlag{Name: "token", Usage: "session token from `timeline login`", EnvVars: []string{"TIMELINE_TOKEN"}},
		},
		Action: runTUI,
		Commands: []*cli.Command{
			loginCommand(),
			servicesCommand(),
			eventsCommand(),
			gridCommand(),
			exportCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("timeline command failed", "error", err)
		os.Exit(1)
	}
}

func newClient(c *cli.Context) (*apiclient.Client, error) {
	return apiclient.New(apiclient.Config{BaseURL: c.String("api"), Token: c.String("token")})
}

func runTUI(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	return tui.Run(c.Context, client, time.Now())
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Exchange a Google ID token for a session token.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "credential", Required: true, Usage: "Google ID token", EnvVars: []string{"GOOGLE_ID_TOKEN"}},
		},
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			session, err := client.SignIn(c.Context, c.String("credential"))
			if err != nil {
				return fmt.Errorf("sign in: %w", err)
			}
			fmt.Printf("Signed in as %s until %s\n", session.Email, session.ExpiresAt.Local().Format(time.RFC1123))
			fmt.Printf("export TIMELINE_TOKEN=%s\n", session.Token)
			return nil
		},
	}
}

func servicesCommand() *cli.Command {
	return &cli.Command{
		Name:  "services",
		Usage: "Manage timeline columns.",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List services in display order.",
				Action: func(c *cli.Context) error {
					client, err := newClient(c)
					if err != nil {
						return err
					}
					items, err := client.ListServices(c.Context)
					if err != nil {
						return err
					}
					w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ORDER\tID\tSERVICE")
					for _, svc := range items {
						fmt.Fprintf(w, "%d\t%s\t%s %s\n", svc.Order, svc.ID, svc.Emoji, svc.Name)
					}
					return w.Flush()
				},
			},
			{
				Name:  "add",
				Usage: "Append a new service with default name and emoji.",
				Action: func(c *cli.Context) error {
					client, err := newClient(c)
					if err != nil {
						return err
					}
					svc, err := client.CreateService(c.Context)
					if err != nil {
						return err
					}
					fmt.Printf("created %s %s (%s)\n", svc.Emoji, svc.Name, svc.ID)
					return nil
				},
			},
			{
				Name:      "rename",
				Usage:     "Rename a service and set its emoji.",
				ArgsUsage: "<service-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "emoji", Value: domain.DefaultServiceEmoji},
				},
				Action: func(c *cli.Context) error {
					client, err := newClient(c)
					if err != nil {
						return err
					}
					svc, err := client.UpdateService(c.Context, c.Args().First(), contracts.UpdateServiceRequest{
						Name:  c.String("name"),
						Emoji: c.String("emoji"),
					})
					if err != nil {
						return err
					}
					fmt.Printf("updated %s %s\n", svc.Emoji, svc.Name)
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a service and all of its events.",
				ArgsUsage: "<service-id>",
				Action: func(c *cli.Context) error {
					client, err := newClient(c)
					if err != nil {
						return err
					}
					res, err := client.DeleteService(c.Context, c.Args().First())
					fmt.Printf("deleted %d events\n", len(res.DeletedEventIDs))
					if len(res.SurvivingEventIDs) > 0 {
						fmt.Printf("could not delete: %s\n", strings.Join(res.SurvivingEventIDs, ", "))
					}
					return err
				},
			},
		},
	}
}

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "List or add timeline events.",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List events, newest first, or by date within a range.",
				Flags: rangeFlags(),
				Action: func(c *cli.Context) error {
					client, err := newClient(c)
					if err != nil {
						return err
					}
					rng, err := rangeFromFlags(c)
					if err != nil {
						return err
					}
					items, err := client.ListEvents(c.Context, rng)
					if err != nil {
						return err
					}
					w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "DATE\tCATEGORY\tTITLE")
					for _, ev := range items {
						title := ev.Title
						if ev.Highlight {
							title = "★ " + title
						}
						fmt.Fprintf(w, "%s\t%s\t%s\n", ev.Date, ev.Category, title)
					}
					return w.Flush()
				},
			},
			{
				Name:  "add",
				Usage: "Create an event; the server classifies it before saving.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "service", Required: true, Usage: "service id"},
					&cli.StringFlag{Name: "date", Value: domain.FormatDate(time.Now()), Usage: "YYYY-MM-DD"},
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "content", Required: true},
				},
				Action: func(c *cli.Context) error {
					client, err := newClient(c)
					if err != nil {
						return err
					}
					ev, err := client.CreateEvent(c.Context, contracts.CreateEventRequest{
						ServiceID: c.String("service"),
						Date:      c.String("date"),
						Title:     c.String("title"),
						Content:   c.String("content"),
					})
					if err != nil {
						return err
					}
					fmt.Printf("%s %s [%s] %s\n", ev.Date, ev.Title, ev.Category, ev.Reason)
					return nil
				},
			},
		},
	}
}

func gridCommand() *cli.Command {
	return &cli.Command{
		Name:  "grid",
		Usage: "Print the timeline grid without the interactive view.",
		Flags: append(rangeFlags(),
			&cli.StringFlag{Name: "mode", Value: "week", Usage: "week or day"},
			&cli.StringFlag{Name: "order", Value: "asc", Usage: "asc or desc"},
		),
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			rng, err := rangeFromFlags(c)
			if err != nil {
				return err
			}
			if rng == nil {
				return fmt.Errorf("--start and --end are required")
			}
			g, err := client.Timeline(c.Context, *rng, c.String("mode"), c.String("order"))
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			header := []string{g.Label}
			for _, svc := range g.Services {
				header = append(header, svc.Emoji+" "+svc.Name)
			}
			fmt.Fprintln(w, strings.Join(header, "\t"))
			for _, row := range g.Rows {
				cols := []string{row.Label}
				for _, cell := range row.Cells {
					titles := make([]string, 0, len(cell.Events))
					for _, ev := range cell.Events {
						titles = append(titles, ev.Title)
					}
					cols = append(cols, strings.Join(titles, "; "))
				}
				fmt.Fprintln(w, strings.Join(cols, "\t"))
			}
			return w.Flush()
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Download the timeline as an iCalendar file.",
		Flags: append(rangeFlags(),
			&cli.StringFlag{Name: "out", Value: "timeline.ics", Usage: "output file, - for stdout"},
		),
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			rng, err := rangeFromFlags(c)
			if err != nil {
				return err
			}
			body, err := client.Calendar(c.Context, rng)
			if err != nil {
				return err
			}
			if c.String("out") == "-" {
				_, err = os.Stdout.Write(body)
				return err
			}
			return os.WriteFile(c.String("out"), body, 0o644)
		},
	}
}

func rangeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "start", Usage: "first day, YYYY-MM-DD"},
		&cli.StringFlag{Name: "end", Usage: "last day, YYYY-MM-DD"},
	}
}

func rangeFromFlags(c *cli.Context) (*domain.DateRange, error) {
	if c.String("start") == "" && c.String("end") == "" {
		return nil, nil
	}
	rng, err := domain.NewDateRange(c.String("start"), c.String("end"))
	if err != nil {
		return nil, err
	}
	return &rng, nil
}
