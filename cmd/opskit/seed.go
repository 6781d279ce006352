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

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the platform with fixture data",
}

var seedUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Register the fixture accounts and write users.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := seedDataDir()
		creds, err := fixtures.LoadCredentials(filepath.Join(dir, fixtures.AuthFile))
		if err != nil {
			return err
		}
		users, st := seed.RegisterUsers(cmd.Context(), platform.NewClient(cfg.API.BaseURL), creds, logger)
		if err := saveUsers(dir, users); err != nil {
			return err
		}
		printStats(st)
		if !st.OK() {
			return errors.Errorf("%d of %d registrations failed", st.Failed, len(creds))
		}
		return nil
	},
}

var seedTokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Log the fixture accounts back in and refresh users.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := seedDataDir()
		creds, err := fixtures.LoadCredentials(filepath.Join(dir, fixtures.AuthFile))
		if err != nil {
			return err
		}
		users, st := seed.RefreshTokens(cmd.Context(), platform.NewClient(cfg.API.BaseURL), creds, logger)
		if err := saveUsers(dir, users); err != nil {
			return err
		}
		printStats(st)
		if !st.OK() {
			return errors.Errorf("%d of %d logins failed", st.Failed, len(creds))
		}
		return nil
	},
}

var seedAvatarsCmd = &cobra.Command{
	Use:   "avatars",
	Short: "Upload a profile photo for every users.json entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := seedDataDir()
		users, err := fixtures.LoadUsers(filepath.Join(dir, fixtures.UsersFile))
		if err != nil {
			return err
		}
		st := seed.UploadAvatars(cmd.Context(), platform.NewClient(cfg.API.BaseURL), users,
			filepath.Join(dir, fixtures.PhotosDir), logger)
		printStats(st)
		if !st.OK() {
			return errors.Errorf("%d avatar upload(s) failed", st.Failed)
		}
		return nil
	},
}

var seedPostsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Create the fixture posts under their authors' accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := seedDataDir()
		users, err := fixtures.LoadUsers(filepath.Join(dir, fixtures.UsersFile))
		if err != nil {
			return err
		}
		posts, err := fixtures.LoadPosts(filepath.Join(dir, fixtures.PostsFile))
		if err != nil {
			return err
		}
		st := seed.CreatePosts(cmd.Context(), platform.NewClient(cfg.API.BaseURL), users, posts,
			filepath.Join(dir, fixtures.PostPicturesDir), logger)
		printStats(st)
		if !st.OK() {
			return errors.Errorf("%d post(s) failed", st.Failed)
		}
		return nil
	},
}

// saveUsers writes the refreshed sessions back next to the auth fixture.
// A run that produced no sessions leaves the previous users.json in place
// rather than truncating it.
func saveUsers(dir string, users []fixtures.SeedUser) error {
	if len(users) == 0 {
		fmt.Println("no sessions obtained, users.json left untouched")
		return nil
	}
	path := filepath.Join(dir, fixtures.UsersFile)
	if err := fixtures.SaveUsers(path, users); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d users)\n", path, len(users))
	return nil
}

func printStats(st seed.Stats) {
	fmt.Printf("succeeded: %d, failed: %d, skipped: %d\n", st.Succeeded, st.Failed, st.Skipped)
}

func init() {
	seedCmd.AddCommand(seedUsersCmd, seedTokensCmd, seedAvatarsCmd, seedPostsCmd)
	rootCmd.AddCommand(seedCmd)
}
