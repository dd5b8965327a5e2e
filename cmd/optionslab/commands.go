package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/xhit/go-str2duration/v2"

	"github.com/optionslab/optionslab-client/internal/apiclient"
	"github.com/optionslab/optionslab-client/internal/export"
	"github.com/optionslab/optionslab-client/internal/session"
	"github.com/optionslab/optionslab-client/internal/strategy"
	"github.com/optionslab/optionslab-client/internal/tui"
	"github.com/optionslab/optionslab-client/internal/views"
)

var jsonFlag = &cli.BoolFlag{Name: "json", Usage: "print JSON instead of a table"}

func commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "login",
			Usage: "sign in and store the session",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "email", Required: true},
				&cli.StringFlag{Name: "password", EnvVars: []string{"OPTIONSLAB_PASSWORD"}, Usage: "read from stdin when omitted"},
			},
			Action: loginAction,
		},
		{
			Name:  "register",
			Usage: "create an account and store the session",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Required: true},
				&cli.StringFlag{Name: "email", Required: true},
				&cli.StringFlag{Name: "password", EnvVars: []string{"OPTIONSLAB_PASSWORD"}, Usage: "read from stdin when omitted"},
			},
			Action: registerAction,
		},
		{
			Name:   "logout",
			Usage:  "end the session and forget stored tokens",
			Action: logoutAction,
		},
		{
			Name:   "whoami",
			Usage:  "show the signed-in user",
			Flags:  []cli.Flag{jsonFlag},
			Action: whoamiAction,
		},
		{
			Name:  "strategies",
			Usage: "list strategies served by the API",
			Flags: []cli.Flag{
				jsonFlag,
				&cli.BoolFlag{Name: "catalog", Usage: "list the built-in catalog instead"},
			},
			Action: strategiesAction,
		},
		{
			Name:   "simulations",
			Usage:  "list the signed-in user's simulations",
			Flags:  []cli.Flag{jsonFlag},
			Action: simulationsAction,
		},
		{
			Name:  "recent",
			Usage: "show the most recent simulations",
			Flags: []cli.Flag{
				jsonFlag,
				&cli.IntFlag{Name: "limit", Usage: "number of simulations (default from config)"},
				&cli.StringFlag{Name: "since", Usage: "only simulations newer than this, e.g. 36h or 2w"},
			},
			Action: recentAction,
		},
		{
			Name:   "stats",
			Usage:  "show simulation statistics",
			Flags:  []cli.Flag{jsonFlag},
			Action: statsAction,
		},
		{
			Name:   "assets",
			Usage:  "list tradable market assets",
			Flags:  []cli.Flag{jsonFlag},
			Action: assetsAction,
		},
		{
			Name:  "suggest",
			Usage: "suggest strategies from your risk profile",
			Flags: []cli.Flag{
				jsonFlag,
				&cli.StringFlag{Name: "risk", Usage: "use this risk profile instead of inferring it"},
			},
			Action: suggestAction,
		},
		{
			Name:  "profile",
			Usage: "show or update the user profile",
			Flags: []cli.Flag{
				jsonFlag,
				&cli.StringFlag{Name: "name"},
				&cli.StringFlag{Name: "bio"},
				&cli.StringFlag{Name: "experience", Usage: "NOVICE|INTERMEDIATE|ADVANCED|EXPERT"},
			},
			Action: profileAction,
		},
		{
			Name:  "serve",
			Usage: "serve the local dashboard API",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "addr", Usage: "listen address (default from config)"},
				&cli.BoolFlag{Name: "watch", Usage: "also watch simulations and send alerts"},
			},
			Action: func(c *cli.Context) error {
				return appFrom(c).Serve(c.Context, c.String("addr"), c.Bool("watch"))
			},
		},
		{
			Name:  "tui",
			Usage: "open the terminal dashboard",
			Action: func(c *cli.Context) error {
				a := appFrom(c)
				if _, err := a.CurrentUser(); err != nil {
					return err
				}
				return tui.Run(c.Context, a.Dashboard, a.Config().Dashboard.RefreshInterval)
			},
		},
		{
			Name:  "watch",
			Usage: "poll simulations and alert when they conclude",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "digest", Usage: "send a dashboard digest before watching"},
			},
			Action: watchAction,
		},
		{
			Name:  "export",
			Usage: "export simulations (csv, xlsx) or the dashboard (pdf)",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "format", Value: export.FormatXLSX, Usage: "csv|xlsx|pdf"},
				&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default optionslab.<format>)"},
			},
			Action: exportAction,
		},
	}
}

func readPassword(c *cli.Context) (string, error) {
	if p := c.String("password"); p != "" {
		return p, nil
	}
	fmt.Fprint(c.App.ErrWriter, "password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func loginAction(c *cli.Context) error {
	password, err := readPassword(c)
	if err != nil {
		return err
	}
	tokens, err := appFrom(c).Client().Login(c.Context, apiclient.Credentials{
		Email:    c.String("email"),
		Password: password,
	})
	if err != nil {
		return err
	}
	return printWelcome(c, tokens)
}

func registerAction(c *cli.Context) error {
	password, err := readPassword(c)
	if err != nil {
		return err
	}
	tokens, err := appFrom(c).Client().Register(c.Context, apiclient.Registration{
		Name:     c.String("name"),
		Email:    c.String("email"),
		Password: password,
	})
	if err != nil {
		return err
	}
	return printWelcome(c, tokens)
}

func printWelcome(c *cli.Context, tokens *apiclient.AuthTokens) error {
	name := c.String("email")
	if tokens.User != nil && tokens.User.Name != "" {
		name = tokens.User.Name
	}
	_, err := fmt.Fprintf(c.App.Writer, "signed in as %s\n", name)
	return err
}

func logoutAction(c *cli.Context) error {
	if err := appFrom(c).Client().Logout(c.Context); err != nil {
		return err
	}
	_, err := fmt.Fprintln(c.App.Writer, "signed out")
	return err
}

func whoamiAction(c *cli.Context) error {
	a := appFrom(c)
	if _, err := a.CurrentUser(); err != nil {
		return err
	}
	token, _ := a.Store().Get(session.AccessTokenKey)
	claims, err := session.ParseClaims(token)
	if err != nil {
		return err
	}
	info := map[string]interface{}{
		"user_id": claims.User(),
		"email":   claims.Email,
		"name":    claims.Name,
		"level":   a.Level().String(),
	}
	if claims.ExpiresAt != nil {
		info["expires_at"] = claims.ExpiresAt.Time.Format(time.RFC3339)
	}
	if c.Bool("json") {
		return printJSON(c, info)
	}
	return printKV(c, info, "user_id", "email", "name", "level", "expires_at")
}

func strategiesAction(c *cli.Context) error {
	if c.Bool("catalog") {
		catalog := strategy.Catalog()
		if c.Bool("json") {
			return printJSON(c, catalog)
		}
		return printDescriptors(c, catalog)
	}
	a := appFrom(c)
	if _, err := a.CurrentUser(); err != nil {
		return err
	}
	list, err := a.Views().Strategies(c.Context)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c, list)
	}
	return printStrategies(c, list)
}

func simulationsAction(c *cli.Context) error {
	a := appFrom(c)
	userID, err := a.CurrentUser()
	if err != nil {
		return err
	}
	records, err := a.Views().Simulations(c.Context, userID)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c, records)
	}
	return printSimulations(c, records)
}

func recentAction(c *cli.Context) error {
	a := appFrom(c)
	userID, err := a.CurrentUser()
	if err != nil {
		return err
	}
	limit := a.Config().Recent.Limit
	if c.IsSet("limit") {
		limit = c.Int("limit")
	}
	var since time.Time
	if v := c.String("since"); v != "" {
		d, err := str2duration.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("--since: %w", err)
		}
		since = time.Now().Add(-d)
	}
	recent, err := a.Views().RecentSimulations(c.Context, userID, limit, since)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c, recent)
	}
	return printRecent(c, recent)
}

func statsAction(c *cli.Context) error {
	a := appFrom(c)
	userID, err := a.CurrentUser()
	if err != nil {
		return err
	}
	stats, err := a.Views().Statistics(c.Context, userID)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c, stats)
	}
	return printKV(c, map[string]interface{}{
		"total":        stats.Total,
		"concluded":    stats.Concluded,
		"in progress":  stats.InProgress,
		"win rate":     stats.WinRate,
		"avg return":   stats.AvgReturn,
		"best return":  stats.BestReturn,
		"worst return": stats.WorstReturn,
	}, "total", "concluded", "in progress", "win rate", "avg return", "best return", "worst return")
}

func assetsAction(c *cli.Context) error {
	a := appFrom(c)
	if _, err := a.CurrentUser(); err != nil {
		return err
	}
	assets, err := a.Views().MarketAssets(c.Context)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c, assets)
	}
	return printAssets(c, assets)
}

func suggestAction(c *cli.Context) error {
	a := appFrom(c)
	var sug views.Suggestions
	if v := c.String("risk"); v != "" {
		risk, err := strategy.ParseRiskProfile(v)
		if err != nil {
			return err
		}
		sug = views.Suggestions{Level: a.Level(), Risk: risk, Strategies: strategy.GetSuggestedStrategies(a.Level(), risk)}
	} else {
		userID, err := a.CurrentUser()
		if err != nil {
			return err
		}
		if sug, err = a.Views().Suggestions(c.Context, userID, a.Level()); err != nil {
			return err
		}
	}
	if c.Bool("json") {
		return printJSON(c, sug)
	}
	fmt.Fprintf(c.App.Writer, "risk profile %s, level %s\n\n", sug.Risk, sug.Level)
	return printDescriptors(c, sug.Strategies)
}

func profileAction(c *cli.Context) error {
	a := appFrom(c)
	userID, err := a.CurrentUser()
	if err != nil {
		return err
	}

	var profile *apiclient.UserProfile
	if c.IsSet("name") || c.IsSet("bio") || c.IsSet("experience") {
		update := apiclient.ProfileUpdate{Name: c.String("name"), Bio: c.String("bio")}
		if v := c.String("experience"); v != "" {
			lvl, err := strategy.ParseExperienceLevel(v)
			if err != nil {
				return err
			}
			update.ExperienceLevel = lvl.String()
		}
		profile, err = a.Client().UpdateUserProfile(c.Context, userID, update)
	} else {
		var found bool
		profile, found, err = a.Profile(c.Context)
		if err == nil && !found {
			fmt.Fprintln(c.App.Writer, "no profile yet; set one with --name, --bio or --experience")
			return nil
		}
	}
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c, profile)
	}
	return printKV(c, map[string]interface{}{
		"name":       profile.Name,
		"email":      profile.Email,
		"experience": profile.ExperienceLevel,
		"bio":        profile.Bio,
		"updated":    profile.UpdatedAt,
	}, "name", "email", "experience", "bio", "updated")
}

func watchAction(c *cli.Context) error {
	a := appFrom(c)
	if c.Bool("digest") {
		if err := a.SendDigest(c.Context); err != nil {
			return err
		}
	}
	return a.Watch(c.Context)
}

func exportAction(c *cli.Context) error {
	a := appFrom(c)
	userID, err := a.CurrentUser()
	if err != nil {
		return err
	}

	format := strings.ToLower(c.String("format"))
	var out []byte
	switch format {
	case export.FormatCSV, export.FormatXLSX:
		records, err := a.Views().Simulations(c.Context, userID)
		if err != nil {
			return err
		}
		if format == export.FormatCSV {
			out, err = export.SimulationsCSV(records)
		} else {
			out, err = export.SimulationsXLSX(records, views.SummarizeCapital(records))
		}
		if err != nil {
			return err
		}
	case export.FormatPDF:
		d, err := a.Dashboard(c.Context)
		if err != nil {
			return err
		}
		if out, err = export.DashboardPDF(d); err != nil {
			return err
		}
	default:
		return errors.New("--format must be csv, xlsx or pdf")
	}

	path := c.String("out")
	if path == "" {
		path = "optionslab." + format
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "wrote %s (%d bytes)\n", path, len(out))
	return err
}
