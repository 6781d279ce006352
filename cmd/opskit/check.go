package main

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/givehub/opskit/internal/fixtures"
	"github.com/givehub/opskit/internal/platform"
	"github.com/givehub/opskit/internal/seed"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify server state against the fixtures",
}

var checkPostsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Compare posts.json with what the server returns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		posts, err := fixtures.LoadPosts(filepath.Join(seedDataDir(), fixtures.PostsFile))
		if err != nil {
			return err
		}
		rep, err := seed.CheckPosts(cmd.Context(), platform.NewClient(cfg.API.BaseURL), posts, logger)
		if err != nil {
			return err
		}
		fmt.Printf("found: %d/%d\n", len(rep.Found), len(posts))
		if n := rep.AmountMismatches(); n > 0 {
			fmt.Printf("amounts differing: %d\n", n)
		}
		if rep.Extra > 0 {
			fmt.Printf("extra posts on server: %d\n", rep.Extra)
		}
		for _, p := range rep.Missing {
			fmt.Printf("missing: #%d %q (user %d)\n", p.ID, p.Title, p.UserID)
		}
		if !rep.OK() {
			return errors.Errorf("%d expected post(s) missing from server", len(rep.Missing))
		}
		return nil
	},
}

func init() {
	checkCmd.AddCommand(checkPostsCmd)
	rootCmd.AddCommand(checkCmd)
}
