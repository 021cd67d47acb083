package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dreamware/countries/internal/client"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query a running server and print the JSON result",
		Example: `  countries query --id 5
  countries query --name an --items-per-page 3
  countries query --server http://10.0.0.7:4123 --code AO`,
		RunE: runQuery,
	}
	cmd.Flags().String("server", "http://127.0.0.1:4123", "base URL of the countries server")
	cmd.Flags().Uint8("id", 0, "fetch a single country by id")
	cmd.Flags().String("code", "", "filter_country_code")
	cmd.Flags().String("name", "", "filter_name")
	cmd.Flags().String("tag", "", "filter_tag")
	cmd.Flags().Uint32("page", 0, "page number")
	cmd.Flags().Uint32("items-per-page", 10, "items per page")

	_ = viper.BindPFlag("server", cmd.Flags().Lookup("server"))
	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	c := client.New(getString("server", "http://127.0.0.1:4123"))
	flags := cmd.Flags()

	var result any
	if flags.Changed("id") {
		id, _ := flags.GetUint8("id")
		rec, err := c.GetCountry(cmd.Context(), id)
		if err != nil {
			return err
		}
		result = rec
	} else {
		var opts client.ListOptions
		if flags.Changed("code") {
			v, _ := flags.GetString("code")
			opts.CountryCode = &v
		}
		if flags.Changed("name") {
			v, _ := flags.GetString("name")
			opts.Name = &v
		}
		if flags.Changed("tag") {
			v, _ := flags.GetString("tag")
			opts.Tag = &v
		}
		if flags.Changed("page") {
			v, _ := flags.GetUint32("page")
			opts.Page = &v
		}
		if flags.Changed("items-per-page") {
			v, _ := flags.GetUint32("items-per-page")
			opts.ItemsPerPage = &v
		}
		page, err := c.ListCountries(cmd.Context(), opts)
		if err != nil {
			return err
		}
		result = page
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
