package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/givehub/opskit/internal/bootstrap"
	"github.com/givehub/opskit/internal/s3"
)

var (
	initMaxRetries int
	initRetryDelay time.Duration
	lsPrefix       string
	lsRecursive    bool
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Object store operations",
}

var storageInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the platform buckets, waiting for the store to come up",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := s3.New(cfg.Store)
		if err != nil {
			return err
		}
		opts := bootstrap.Options{MaxRetries: cfg.Wait.MaxRetries, RetryDelay: cfg.Wait.RetryDelay}
		if cmd.Flags().Changed("max-retries") {
			opts.MaxRetries = initMaxRetries
		}
		if cmd.Flags().Changed("retry-delay") {
			opts.RetryDelay = initRetryDelay
		}
		sum, err := bootstrap.Run(cmd.Context(), client.Provisioner(), opts, logger)
		if err != nil {
			return err
		}
		fmt.Printf("created: %d, already existed: %d, failed: %d\n",
			len(sum.Created), len(sum.Existing), len(sum.Failed))
		if !sum.OK() {
			return errors.Errorf("%d bucket(s) failed: %s", len(sum.Failed), strings.Join(sum.Failed, ", "))
		}
		return nil
	},
}

var storageLsCmd = &cobra.Command{
	Use:   "ls [bucket]",
	Short: "List buckets, or the objects inside one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := s3.New(cfg.Store)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			buckets, err := client.ListBuckets(cmd.Context())
			if err != nil {
				return err
			}
			for _, b := range buckets {
				fmt.Printf("%s  %s\n", b.CreationDate.Format(time.RFC3339), b.Name)
			}
			return nil
		}
		objects, err := client.ListObjects(cmd.Context(), args[0], lsPrefix, lsRecursive)
		if err != nil {
			return err
		}
		for _, o := range objects {
			fmt.Printf("%12d  %s\n", o.Size, o.Key)
		}
		return nil
	},
}

func init() {
	storageInitCmd.Flags().IntVar(&initMaxRetries, "max-retries", bootstrap.DefaultMaxRetries, "store readiness probe attempts")
	storageInitCmd.Flags().DurationVar(&initRetryDelay, "retry-delay", bootstrap.DefaultRetryDelay, "delay between readiness probes")
	storageLsCmd.Flags().StringVar(&lsPrefix, "prefix", "", "object key prefix to filter on")
	storageLsCmd.Flags().BoolVar(&lsRecursive, "recursive", true, "descend into key hierarchies")
	storageCmd.AddCommand(storageInitCmd, storageLsCmd)
	rootCmd.AddCommand(storageCmd)
}
