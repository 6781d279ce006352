package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/givehub/opskit/internal/config"
)

var configFlags config.FileConfig

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write or update the opskit config file",
	Args:  cobra.NoArgs,
	// The file being edited may be broken; this command must stay usable
	// without loading it, so it opts out of the root environment setup.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.Path()
		fc, err := config.LoadFile(path)
		if err != nil {
			fmt.Printf("replacing unreadable config: %v\n", err)
			fc = &config.FileConfig{}
		}
		f := cmd.Flags()
		if f.Changed("api-url") {
			fc.APIBaseURL = configFlags.APIBaseURL
		}
		if f.Changed("endpoint") {
			fc.Endpoint = configFlags.Endpoint
		}
		if f.Changed("access-key") {
			fc.AccessKey = configFlags.AccessKey
		}
		if f.Changed("secret-key") {
			fc.SecretKey = configFlags.SecretKey
		}
		if f.Changed("use-ssl") {
			fc.UseSSL = configFlags.UseSSL
		}
		if f.Changed("region") {
			fc.Region = configFlags.Region
		}
		if rootCmd.PersistentFlags().Changed("data-dir") {
			fc.DataDir = dataDir
		}
		if err := config.SaveFile(path, fc); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

func init() {
	f := configCmd.Flags()
	f.StringVar(&configFlags.APIBaseURL, "api-url", "", "platform API base URL")
	f.StringVar(&configFlags.Endpoint, "endpoint", "", "object store endpoint host:port")
	f.StringVar(&configFlags.AccessKey, "access-key", "", "object store access key")
	f.StringVar(&configFlags.SecretKey, "secret-key", "", "object store secret key")
	f.BoolVar(&configFlags.UseSSL, "use-ssl", false, "connect to the store over TLS")
	f.StringVar(&configFlags.Region, "region", "", "bucket region")
	rootCmd.AddCommand(configCmd)
}
