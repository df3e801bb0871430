package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dharmasatrya/flightscanner/internal/models"
)

type searchFlags struct {
	from        string
	to          string
	date        string
	returnDate  string
	flex        int
	returnFlex  int
	adults      int
	teens       int
	children    int
	infants     int
	connections int
	currency    string
	maxPrice    float64
}

func (f searchFlags) request() models.SearchRequest {
	req := models.SearchRequest{
		Origin:        f.from,
		Destination:   f.to,
		DepartureDate: f.date,
		Passengers: models.Passengers{
			Adults:   &f.adults,
			Teens:    f.teens,
			Children: f.children,
			Infants:  f.infants,
		},
		DateFlexibility: &models.DateFlexibility{Departure: f.flex, Return: f.returnFlex},
		MaxConnections:  &f.connections,
		Currency:        f.currency,
	}
	if f.returnDate != "" {
		ret := f.returnDate
		req.ReturnDate = &ret
	}
	if f.maxPrice > 0 {
		maxPrice := f.maxPrice
		req.MaxPrice = &maxPrice
	}
	return req
}

func searchCmd() *cobra.Command {
	var f searchFlags

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search itineraries",
		Example: `  flightscan search --from DUB --to BGY --date 2025-07-01 --flex 2
  flightscan search --from STN --to ANY --date 2025-07-01 -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.from == "" || f.to == "" || f.date == "" {
				return cmd.Help()
			}

			engine, _, err := buildEngine(cmd)
			if err != nil {
				return err
			}
			defer engine.Close()

			req := f.request()
			if err := req.Normalize(engine.Aggregator.RequestDefaults()); err != nil {
				return err
			}

			resp := engine.Aggregator.Search(cmd.Context(), req)
			if err := render(cmd, resp); err != nil {
				return err
			}
			if resp.Error != "" {
				return errors.New(resp.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.from, "from", "", "Origin IATA code (required)")
	cmd.Flags().StringVar(&f.to, "to", "", "Destination IATA code or ANY (required)")
	cmd.Flags().StringVar(&f.date, "date", "", "Departure date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&f.returnDate, "return", "", "Return date YYYY-MM-DD")
	cmd.Flags().IntVar(&f.flex, "flex", 0, "Departure date flexibility in days")
	cmd.Flags().IntVar(&f.returnFlex, "return-flex", 0, "Return date flexibility in days")
	cmd.Flags().IntVar(&f.adults, "adults", 1, "Number of adults")
	cmd.Flags().IntVar(&f.teens, "teens", 0, "Number of teens")
	cmd.Flags().IntVar(&f.children, "children", 0, "Number of children")
	cmd.Flags().IntVar(&f.infants, "infants", 0, "Number of infants")
	cmd.Flags().IntVar(&f.connections, "connections", 1, "Maximum connections: 0 or 1")
	cmd.Flags().StringVar(&f.currency, "currency", "", "Fare currency (default from config)")
	cmd.Flags().Float64Var(&f.maxPrice, "max-price", 0, "Drop itineraries above this total price")

	return cmd
}
