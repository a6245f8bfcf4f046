package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"contently/client"
	"contently/posts"
)

func newGenerateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <id>",
		Short: "Generate the article for a draft and wait for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := opts.controller(nil)
			defer ctrl.Close()
			if err := ctrl.Open(cmd.Context(), args[0]); err != nil {
				return err
			}
			return runGenerate(cmd, ctrl)
		},
	}
}

func runGenerate(cmd *cobra.Command, ctrl *client.Controller) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generating %s ...\n", ctrl.View().Post.ID)
	if err := ctrl.Generate(cmd.Context()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", red("Generation failed:"), ctrl.View().Error)
		return err
	}
	v := ctrl.View()
	title := ""
	if v.Post.Title != nil {
		title = *v.Post.Title
	}
	fmt.Fprintf(out, "%s %s\n", green("Generated:"), title)
	return nil
}

func newWatchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <id>",
		Short: "Wait for a post that is generating elsewhere to finish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			last := posts.Status("")
			ctrl := opts.controller(func(v client.View) {
				if v.Post != nil && v.Post.Status != last {
					last = v.Post.Status
					fmt.Fprintf(out, "%s\n", statusLabel(string(last)))
				}
			})
			defer ctrl.Close()

			if err := ctrl.Open(cmd.Context(), args[0]); err != nil {
				return err
			}
			if err := ctrl.Wait(cmd.Context()); err != nil {
				return err
			}
			printPost(out, ctrl.View().Post)
			return nil
		},
	}
}
