// Command stratumcheck wires a single backend through the completion and
// metrics layers and drives stat/read/ls against it, grounded on rclone's
// own cmd/ convention of one cobra.Command per verb (see e.g.
// backend/torrent/cmd's commandDefinition/statsCommand/pauseCommand
// pattern) collapsed into a single binary instead of a subcommand wired
// into rclone's own cmd.Root.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rclone/stratum/backend/httpstore"
	"github.com/rclone/stratum/backend/local"
	"github.com/rclone/stratum/backend/memory"
	"github.com/rclone/stratum/core"
	"github.com/rclone/stratum/core/configmap"
	"github.com/rclone/stratum/layers/complete"
	"github.com/rclone/stratum/layers/metrics"
)

var (
	backendName string
	rootDir     string
	baseURL     string
)

var rootCmd = &cobra.Command{
	Use:   "stratumcheck",
	Short: "Exercise a stratum accessor stack from the command line",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "memory", "backend to use: memory, local, httpstore")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "root directory (backend=local)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "", "base URL (backend=httpstore)")

	rootCmd.AddCommand(statCommand, readCommand, lsCommand)
}

func buildAccessor() (core.Accessor, error) {
	var inner core.Accessor
	switch backendName {
	case "memory":
		inner = memory.New()
	case "local":
		a, err := local.New(configmap.Simple{"root": rootDir})
		if err != nil {
			return nil, err
		}
		inner = a
	case "httpstore":
		a, err := httpstore.New(configmap.Simple{"url": baseURL}, http.DefaultClient)
		if err != nil {
			return nil, err
		}
		inner = a
	default:
		return nil, fmt.Errorf("unknown backend %q", backendName)
	}

	completed := complete.New().Layer(inner)
	return metrics.New(prometheus.NewRegistry()).Layer(completed), nil
}

var statCommand = &cobra.Command{
	Use:   "stat <path>",
	Short: "Stat a path and print its metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accessor, err := buildAccessor()
		if err != nil {
			return err
		}
		md, err := accessor.Stat(context.Background(), args[0])
		if err != nil {
			return err
		}
		if n, ok := md.ContentLength(); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "content_length: %d\n", n)
		}
		if et, ok := md.ETag(); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "etag: %s\n", et)
		}
		if ct, ok := md.ContentType(); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "content_type: %s\n", ct)
		}
		if t, ok := md.LastModified(); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "last_modified: %s\n", t)
		}
		return nil
	},
}

var readCommand = &cobra.Command{
	Use:   "read <path>",
	Short: "Read a path and write its contents to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accessor, err := buildAccessor()
		if err != nil {
			return err
		}
		_, r, err := accessor.Read(context.Background(), args[0], core.ReadOptions{})
		if err != nil {
			return err
		}
		_, err = io.Copy(cmd.OutOrStdout(), r)
		return err
	},
}

var listDelimiter string

var lsCommand = &cobra.Command{
	Use:   "ls <path>",
	Short: "List a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accessor, err := buildAccessor()
		if err != nil {
			return err
		}
		ctx := context.Background()
		_, pager, err := accessor.List(ctx, args[0], core.ListOptions{Delimiter: listDelimiter})
		if err != nil {
			return err
		}
		for {
			entries, err := pager.Next(ctx)
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", e.Mode, e.Path)
			}
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
		}
	},
}

func init() {
	lsCommand.Flags().StringVar(&listDelimiter, "delimiter", "/", `listing delimiter: "/" (hierarchical) or "" (flat)`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
