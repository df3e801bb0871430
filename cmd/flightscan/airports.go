package main

import (
	"github.com/spf13/cobra"
)

func airportsCmd() *cobra.Command {
	var city, code string

	cmd := &cobra.Command{
		Use:   "airports",
		Short: "List airports, optionally filtered by city or IATA code",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := buildEngine(cmd)
			if err != nil {
				return err
			}
			defer engine.Close()

			ctx := cmd.Context()
			if code != "" {
				a, err := engine.Directory.Lookup(ctx, code)
				if err != nil {
					return err
				}
				return render(cmd, a)
			}
			if city != "" {
				matches, err := engine.Directory.FindByCity(ctx, city)
				if err != nil {
					return err
				}
				return render(cmd, matches)
			}

			all, err := engine.Directory.AllAirports(ctx)
			if err != nil {
				return err
			}
			return render(cmd, all)
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "Case-insensitive city substring")
	cmd.Flags().StringVar(&code, "code", "", "Exact IATA code")
	return cmd
}

func destinationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "destinations CODE",
		Short: "List airports served from an origin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := buildEngine(cmd)
			if err != nil {
				return err
			}
			defer engine.Close()

			dests, err := engine.Directory.DestinationAirports(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render(cmd, dests)
		},
	}
}
