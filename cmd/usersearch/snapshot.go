package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/usersearch/directory"
	"github.com/hupe1980/usersearch/snapshot"
)

func newSnapshotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Write and inspect user snapshots in the configured blob store",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "put <users.json>",
		Short: "Encode a JSON user list into the configured snapshot blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			users, err := readUsers(args[0])
			if err != nil {
				return err
			}

			optFn, err := a.cfg.SnapshotOptions()
			if err != nil {
				return err
			}

			store, err := openStore(ctx, a.cfg.Store)
			if err != nil {
				return err
			}

			h, err := directory.NewSnapshot(store, a.cfg.Source.Name).Save(ctx, users, optFn)
			if err != nil {
				return err
			}

			a.logger.InfoContext(ctx, "snapshot written", "name", a.cfg.Source.Name, "records", h.Records, "bytes", h.Size)
			printHeader(cmd, a.cfg.Source.Name, h)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "inspect",
		Short: "Print the header of the configured snapshot blob",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			store, err := openStore(ctx, a.cfg.Store)
			if err != nil {
				return err
			}

			h, err := directory.NewSnapshot(store, a.cfg.Source.Name).Header(ctx)
			if err != nil {
				return err
			}
			printHeader(cmd, a.cfg.Source.Name, h)
			return nil
		},
	})

	return cmd
}

func printHeader(cmd *cobra.Command, name string, h snapshot.Header) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "name:        %s\n", name)
	fmt.Fprintf(out, "version:     %d\n", h.Version)
	fmt.Fprintf(out, "codec:       %s\n", h.Codec)
	fmt.Fprintf(out, "compression: %s\n", h.Compression)
	fmt.Fprintf(out, "records:     %d\n", h.Records)
	fmt.Fprintf(out, "size:        %d (raw %d)\n", h.Size, h.RawSize)
	fmt.Fprintf(out, "checksum:    %08x\n", h.Checksum)
}
