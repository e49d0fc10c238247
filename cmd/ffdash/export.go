package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/omarshaarawi/ffdash/internal/flatten"
	"github.com/omarshaarawi/ffdash/internal/models"
)

func exportCmd() *cobra.Command {
	var table, format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Fetch the season and write a flattened table to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkExportFlags(table, format); err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			tables, err := a.svc.Tables(context.Background())
			if err != nil {
				return err
			}
			return writeExport(os.Stdout, tables, table, format)
		},
	}
	cmd.Flags().StringVar(&table, "table", "team", "Table to export: team or player")
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv or json")
	return cmd
}

func checkExportFlags(table, format string) error {
	if table != "team" && table != "player" {
		return fmt.Errorf("unknown table %q, want team or player", table)
	}
	if format != "csv" && format != "json" {
		return fmt.Errorf("unknown format %q, want csv or json", format)
	}
	return nil
}

func writeExport(w io.Writer, tables *models.LeagueTables, table, format string) error {
	switch {
	case table == "team" && format == "csv":
		return flatten.WriteTeamCSV(w, tables.Teams)
	case table == "player" && format == "csv":
		return flatten.WritePlayerCSV(w, tables.Players)
	case table == "team":
		return flatten.WriteJSON(w, tables.Teams)
	default:
		return flatten.WriteJSON(w, tables.Players)
	}
}
