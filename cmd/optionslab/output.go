package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/optionslab/optionslab-client/internal/apiclient"
	"github.com/optionslab/optionslab-client/internal/normalize"
	"github.com/optionslab/optionslab-client/internal/strategy"
)

func printJSON(c *cli.Context, v interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func table(c *cli.Context, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func printKV(c *cli.Context, kv map[string]interface{}, order ...string) error {
	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	for _, k := range order {
		if v, ok := kv[k]; ok {
			fmt.Fprintf(tw, "%s:\t%v\n", k, v)
		}
	}
	return tw.Flush()
}

func rate(v *float64) string {
	if v == nil {
		return "-"
	}
	return normalize.FormatRate(v)
}

func money(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func printSimulations(c *cli.Context, records []normalize.SimulationRecord) error {
	tw := table(c, "ID", "NAME", "SYMBOL", "INITIAL", "FINAL", "RETURN", "STATUS")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.Symbol, money(r.InitialCapital), money(r.FinalCapital), rate(r.ReturnPct), r.Status.Label())
	}
	return tw.Flush()
}

func printRecent(c *cli.Context, recent []normalize.RecentSimulation) error {
	tw := table(c, "CREATED", "NAME", "SYMBOL", "RETURN", "STATUS")
	for _, r := range recent {
		created := "-"
		if r.CreatedAt != nil {
			created = r.CreatedAt.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", created, r.Name, r.Symbol, rate(r.ReturnPct), r.Status.Label())
	}
	return tw.Flush()
}

func printAssets(c *cli.Context, assets []normalize.MarketAsset) error {
	tw := table(c, "SYMBOL", "NAME", "EXCHANGE", "CURRENCY")
	for _, a := range assets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Symbol, a.Name, a.Exchange, a.Currency)
	}
	return tw.Flush()
}

func printStrategies(c *cli.Context, list []apiclient.Strategy) error {
	tw := table(c, "NAME", "BIAS", "RISK", "LEVEL")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Name, s.Bias, s.RiskLevel, s.ExperienceLevel)
	}
	return tw.Flush()
}

func printDescriptors(c *cli.Context, list []strategy.Descriptor) error {
	tw := table(c, "NAME", "BIAS", "RISK", "MIN LEVEL", "TAGS")
	for _, d := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.Name, d.Bias, d.Risk, d.MinLevel, strings.Join(d.Tags, ","))
	}
	return tw.Flush()
}
