package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
)

// GetQueryCmd returns the cli query commands for the ammoracle module.
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "ammoracle",
		Short:                      "Querying commands for the ammoracle module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryObservation(),
		CmdQueryObservationInterval(),
		CmdQueryObservationsLimit(),
		CmdQueryObservationsStored(),
		CmdQueryOldestObservationTimestamp(),
	)

	return cmd
}

// CmdQueryObservation returns the command to query a point observation.
func CmdQueryObservation() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "observation [unix-seconds]",
		Short: "Query the log-accumulator observation at a given timestamp",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid timestamp %q: %w", args[0], err)
			}
			fmt.Printf("observation query for t=%d requires a running node connection\n", seconds)
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryObservationInterval returns the command to query a geometric
// mean price_sqrt over [start, end).
func CmdQueryObservationInterval() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "observation-interval [start-unix-seconds] [end-unix-seconds]",
		Short: "Query the time-weighted geometric mean price_sqrt over an interval",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid start timestamp %q: %w", args[0], err)
			}
			end, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid end timestamp %q: %w", args[1], err)
			}

			out, _ := json.MarshalIndent(map[string]int64{"start": start, "end": end}, "", "  ")
			fmt.Println(string(out))
			fmt.Println("requires a running node connection")
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryObservationsLimit returns the command to query the ring's fixed capacity.
func CmdQueryObservationsLimit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "observations-limit",
		Short: "Query the oracle's fixed ring capacity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("observations-limit query requires a running node connection")
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryObservationsStored returns the command to query the current ring fill count.
func CmdQueryObservationsStored() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "observations-stored",
		Short: "Query the current count of valid ring slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("observations-stored query requires a running node connection")
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryOldestObservationTimestamp returns the command to query the
// oldest retained observation's timestamp.
func CmdQueryOldestObservationTimestamp() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oldest-observation-timestamp",
		Short: "Query the timestamp of the oldest retained observation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("oldest-observation-timestamp query requires a running node connection")
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
