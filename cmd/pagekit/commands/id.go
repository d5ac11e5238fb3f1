package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ncobase/pagekit/ecode"
	"github.com/ncobase/pagekit/sortid"
	"github.com/spf13/cobra"
)

func newIDCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "id",
		Short: "Generate and inspect sortable identifiers",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(
		newIDNextCommand(root),
		newIDDecodeCommand(root),
		newIDEncodeCommand(root),
	)
	return cmd
}

func newIDNextCommand(root *rootOptions) *cobra.Command {
	var (
		count   int
		node    int64
		residue uint64
	)

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Generate identifiers on the configured node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := root.load()
			if err != nil {
				return err
			}
			defer cleanup()

			if count < 1 {
				return fmt.Errorf("%s", ecode.FieldIsInvalid("count"))
			}
			sid := *cfg.SortID
			if node >= 0 {
				sid.Node = uint64(node)
			}
			var opts []sortid.GeneratorOption
			if residue > 0 {
				opts = append(opts, sortid.WithResidue(residue))
			}
			gen, err := sid.Generator(opts...)
			if err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				id, err := gen.Next()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of identifiers")
	cmd.Flags().Int64Var(&node, "node", -1, "node id (defaults to sortid.node)")
	cmd.Flags().Uint64Var(&residue, "residue", 0, "residue stamped on every identifier")
	return cmd
}

type decodedID struct {
	ID int64 `json:"id"`
	sortid.Parts
	Time time.Time `json:"time"`
}

func newIDDecodeCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <id>...",
		Short: "Decode identifiers into their fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := root.load()
			if err != nil {
				return err
			}
			defer cleanup()

			codec, err := cfg.SortID.Codec()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("%s: %w", ecode.FieldIsInvalid(arg), err)
				}
				parts, err := codec.Decode(id)
				if err != nil {
					return err
				}
				if err := enc.Encode(decodedID{ID: id, Parts: parts, Time: codec.Time(parts)}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newIDEncodeCommand(root *rootOptions) *cobra.Command {
	var (
		parts  sortid.Parts
		atTime string
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode fields into an identifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := root.load()
			if err != nil {
				return err
			}
			defer cleanup()

			codec, err := cfg.SortID.Codec()
			if err != nil {
				return err
			}
			if atTime != "" {
				t, err := time.Parse(time.RFC3339Nano, atTime)
				if err != nil {
					return fmt.Errorf("%s: %w", ecode.FieldIsInvalid("time"), err)
				}
				if parts.Timestamp, err = codec.Ticks(t); err != nil {
					return err
				}
			}
			id, err := codec.EncodeChecked(parts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&parts.Timestamp, "timestamp", 0, "ticks since the epoch")
	cmd.Flags().StringVar(&atTime, "time", "", "RFC 3339 time, overrides --timestamp")
	cmd.Flags().Uint64Var(&parts.Node, "node", 0, "node id")
	cmd.Flags().Uint64Var(&parts.Sequence, "sequence", 0, "sequence within the tick")
	cmd.Flags().Uint64Var(&parts.Residue, "residue", 0, "residue")
	return cmd
}
