package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"contently/posts"
	"contently/render"
)

func newNewCmd(opts *globalOptions) *cobra.Command {
	var in posts.NewPost
	var generate bool

	cmd := &cobra.Command{
		Use:   "new <prompt>",
		Short: "Create a draft post",
		Long: `Create a draft post from a topic and optional context.

Examples:
  contentctl new "겨울 여행지 추천"
  contentctl new "Rust ownership" --keywords "borrow checker" --generate
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Prompt = args[0]
			ctrl := opts.controller(nil)
			defer ctrl.Close()

			id, err := ctrl.Submit(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", bold(id), statusLabel(string(posts.StatusDraft)))
			if !generate {
				return nil
			}
			return runGenerate(cmd, ctrl)
		},
	}

	cmd.Flags().StringVar(&in.Keywords, "keywords", "", "keywords to cover")
	cmd.Flags().StringVar(&in.Critique, "critique", "", "author's perspective or critique")
	cmd.Flags().StringVar(&in.ReferenceMaterials, "references", "", "reference material for the writer")
	cmd.Flags().StringVar(&in.Sources, "sources", "", "sources to cite")
	cmd.Flags().BoolVar(&generate, "generate", false, "generate the article right away")
	return cmd
}

func newShowCmd(opts *globalOptions) *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			if asHTML {
				page, err := c.PostHTML(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), page)
				return nil
			}
			p, err := c.GetPost(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printPost(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "print the rendered HTML page")
	return cmd
}

func newListCmd(opts *globalOptions) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var st posts.Status
			if status != "" {
				parsed, err := posts.ParseStatus(status)
				if err != nil {
					return err
				}
				st = parsed
			}
			listing, err := opts.client().ListPosts(cmd.Context(), st)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range listing.Posts {
				fmt.Fprintf(out, "%s  %-10s  %s\n", p.ID, statusLabel(string(p.Status)), headline(&p))
			}
			fmt.Fprintf(out, "\n%d draft, %d generating, %d generated, %d published\n",
				listing.Counts[posts.StatusDraft],
				listing.Counts[posts.StatusGenerating],
				listing.Counts[posts.StatusGenerated],
				listing.Counts[posts.StatusPublished])
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only posts with this status (draft|generating|generated|published)")
	return cmd
}

func headline(p *posts.Post) string {
	if p.Title != nil && *p.Title != "" {
		return *p.Title
	}
	return render.Digest(p.Prompt, 60)
}

func printPost(w io.Writer, p *posts.Post) {
	fmt.Fprintf(w, "%s %s\n", bold("ID:"), p.ID)
	fmt.Fprintf(w, "%s %s\n", bold("Status:"), statusLabel(string(p.Status)))
	fmt.Fprintf(w, "%s %s\n", bold("Prompt:"), p.Prompt)
	for _, f := range []struct {
		label string
		value *string
	}{
		{"Keywords:", p.Keywords},
		{"Critique:", p.Critique},
		{"References:", p.ReferenceMaterials},
		{"Sources:", p.Sources},
	} {
		if f.value != nil {
			fmt.Fprintf(w, "%s %s\n", bold(f.label), *f.value)
		}
	}
	if !p.HasContent() {
		return
	}
	fmt.Fprintln(w)
	if p.Title != nil {
		fmt.Fprintf(w, "# %s\n\n", *p.Title)
	}
	if p.Summary != nil && *p.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", *p.Summary)
	}
	fmt.Fprintln(w, *p.Content)
}
