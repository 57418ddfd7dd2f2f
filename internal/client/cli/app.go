package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/dmitrijs2005/recipebox/internal/client/client"
	"github.com/dmitrijs2005/recipebox/internal/client/config"
)

const name = "recipebox"

// APIFactory builds the API client once the configuration is known.
type APIFactory func(cfg *config.Config) client.API

// App holds the state shared by every subcommand of a single invocation.
type App struct {
	reader  *bufio.Reader
	out     io.Writer
	factory APIFactory

	api    client.API
	format Format
}

// NewApp returns an App reading prompts from in and writing to out.
func NewApp(in io.Reader, out io.Writer) *App {
	return &App{
		reader: bufio.NewReader(in),
		out:    out,
		factory: func(cfg *config.Config) client.API {
			return client.NewHTTPClient(cfg.ServerURL, cfg.Timeout, client.NewSessionStore(cfg.SessionFile))
		},
	}
}

// WithAPIFactory replaces how the API client is built.
func (a *App) WithAPIFactory(f APIFactory) *App {
	a.factory = f
	return a
}

// Run parses args (including the program name) and executes the command.
func (a *App) Run(ctx context.Context, args []string) error {
	return a.Command().Run(ctx, args)
}

// Command builds the root command.
func (a *App) Command() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Browse and manage the RecipeBox catalog",
		EnableShellCompletion: true,
		Writer:                a.out,
		ErrWriter:             a.out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a JSON client config file",
				Sources: cli.EnvVars("RECIPEBOX_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "server",
				Usage:   "RecipeBox server base URL",
				Sources: cli.EnvVars("RECIPEBOX_SERVER"),
			},
			&cli.StringFlag{
				Name:  "session",
				Usage: "file holding the login session",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"o"},
				Value:   string(FormatTable),
				Usage:   fmt.Sprintf("output format (supported values: %s)", strings.Join(SupportedFormats(), ", ")),
			},
		},
		Before: a.setup,
		Commands: []*cli.Command{
			a.registerCmd(),
			a.loginCmd(),
			a.logoutCmd(),
			a.verifyCmd(),
			a.recipesCmd(),
		},
	}
}

func (a *App) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	a.format = Format(cmd.String("format"))
	if a.format.IsUnknown() {
		return ctx, fmt.Errorf("unknown output format: %q", a.format)
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	if s := cmd.String("server"); s != "" {
		cfg.ServerURL = s
	}
	if s := cmd.String("session"); s != "" {
		cfg.SessionFile = s
	}

	a.api = a.factory(cfg)
	return ctx, nil
}

func (a *App) print(v any) error {
	return render(a.out, a.format, v)
}
