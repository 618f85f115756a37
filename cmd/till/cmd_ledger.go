package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/till/app/repositories"
	"github.com/shashiranjanraj/till/config"
	"github.com/shashiranjanraj/till/internal/server"
	"github.com/shashiranjanraj/till/pkg/storage"
)

var (
	exportDiskFlag   string
	exportStdoutFlag bool

	provisionEndpointFlag   string
	provisionCredentialFlag string
)

// till export
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the sales history as JSON to a storage disk or stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := server.Boot(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		if exportStdoutFlag {
			return rt.Terminal.Ledger().Export(ctx, os.Stdout)
		}

		name := exportDiskFlag
		if name == "" {
			name = config.ExportDisk()
		}
		disk, err := storage.Use(name)
		if err != nil {
			return err
		}
		path, err := rt.Terminal.Ledger().ExportTo(ctx, disk, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Exported to %s:%s\n", name, path)
		return nil
	},
}

// till insight
var insightCmd = &cobra.Command{
	Use:   "insight",
	Short: "Print today's AI sales insight",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := server.Boot(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		fmt.Println(rt.Terminal.Insight(cmd.Context()))
		return nil
	},
}

// till remote:provision creates the products and transactions tables on the
// remote database. Defaults to the endpoint stored in settings.
var provisionCmd = &cobra.Command{
	Use:   "remote:provision",
	Short: "Create the remote products and transactions tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint, credential := provisionEndpointFlag, provisionCredentialFlag
		if endpoint == "" {
			rt, err := server.Boot(cmd.Context())
			if err != nil {
				return err
			}
			s := rt.Terminal.Settings()
			_ = rt.Close()
			endpoint = s.RemoteEndpoint
			if credential == "" {
				credential = s.RemoteCredential
			}
		}
		if endpoint == "" {
			return fmt.Errorf("no remote endpoint: pass --endpoint or save one in settings")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		remote, err := repositories.OpenRemoteStore(ctx, endpoint, credential)
		if err != nil {
			return err
		}
		defer remote.Close()

		if err := remote.Provision(ctx); err != nil {
			return fmt.Errorf("provision: %w", err)
		}
		fmt.Println("Remote tables ready.")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDiskFlag, "disk", "", "storage disk to write to (default EXPORT_DISK)")
	exportCmd.Flags().BoolVar(&exportStdoutFlag, "stdout", false, "write to stdout instead of a disk")

	provisionCmd.Flags().StringVar(&provisionEndpointFlag, "endpoint", "", "remote endpoint URL")
	provisionCmd.Flags().StringVar(&provisionCredentialFlag, "credential", "", "remote credential")
}
