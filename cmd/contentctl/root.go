package main

import (
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"contently/client"
	"contently/config"
)

type globalOptions struct {
	server   string
	token    string
	interval time.Duration
	timeout  time.Duration
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "contentctl",
		Short:         "Create, generate and read blog posts on a contently server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.server, "server", config.GetEnv("CONTENTLY_URL", "http://localhost:8080"), "server base URL (env CONTENTLY_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", config.GetEnv("CONTENTLY_TOKEN", ""), "session token (env CONTENTLY_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&opts.interval, "poll-interval", client.DefaultPollInterval, "how often a generating post is re-fetched")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", client.DefaultReadTimeout, "limit for each read request; generate waits for the server (0 = no limit)")

	rootCmd.AddCommand(newNewCmd(opts))
	rootCmd.AddCommand(newShowCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newGenerateCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))

	return rootCmd
}

func (o *globalOptions) client() *client.Client {
	return client.NewClient(o.server, o.token, client.WithReadTimeout(o.timeout))
}

func (o *globalOptions) controller(onChange func(client.View)) *client.Controller {
	opts := []client.ControllerOption{client.WithPollInterval(o.interval)}
	if onChange != nil {
		opts = append(opts, client.OnChange(onChange))
	}
	return client.NewController(o.client(), opts...)
}

func statusLabel(s string) string {
	switch s {
	case "generated", "published":
		return green(s)
	case "generating":
		return yellow(s)
	default:
		return s
	}
}
