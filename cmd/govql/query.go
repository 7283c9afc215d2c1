package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/govql/config"
)

func newQueryCmd() *cobra.Command {
	var cfgPath string
	var varsJSON string

	cmd := &cobra.Command{
		Use:   "query <query-text>",
		Short: "Run a raw query through the full client stack (for debugging)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			var variables map[string]any
			if varsJSON != "" {
				if err := json.Unmarshal([]byte(varsJSON), &variables); err != nil {
					return fmt.Errorf("parse --vars: %w", err)
				}
			}

			qc, err := buildClient(cfg, nil)
			if err != nil {
				return err
			}

			data, err := qc.Query(cmd.Context(), args[0], variables)
			if err != nil {
				return err
			}

			var pretty bytes.Buffer
			if err := json.Indent(&pretty, data, "", "  "); err != nil {
				// Not an object or array; print as-is.
				cmd.Println(string(data))
				return nil
			}
			cmd.Println(pretty.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "govql.yaml", "path to the config file")
	cmd.Flags().StringVar(&varsJSON, "vars", "", "query variables as a JSON object")
	return cmd
}
