package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pathbridge/internal/bridge"
)

var (
	bridgeInput      string
	bridgeOutput     string
	bridgeInputKeys  []string
	bridgeOutputKeys []string
	bridgeURL        string
	bridgeMethod     string
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Run one nested-value bridge invocation",
	Long: `Reads the value at the input key path from the input YAML document, sends
it to the endpoint, and writes the JSON response into the output document at
the output key path. Flags override the corresponding config file fields.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := cfg.Bridge.Request()
		if bridgeInput != "" {
			req.InputPath = bridgeInput
		}
		if bridgeOutput != "" {
			req.OutputPath = bridgeOutput
		}
		if len(bridgeInputKeys) > 0 {
			req.InputKeys = bridgeInputKeys
		}
		if cmd.Flags().Changed("output-key") {
			req.OutputKeys = bridgeOutputKeys
		}
		if bridgeURL != "" {
			req.URL = bridgeURL
		}
		if bridgeMethod != "" {
			req.Method = bridgeMethod
		}
		if req.InputPath == "" || req.OutputPath == "" || req.URL == "" {
			return fmt.Errorf("bridge needs an input path, an output path, and a URL (flags or config)")
		}

		result := bridge.New(nil).Process(cmd.Context(), req)
		if !result.OK() {
			return fmt.Errorf("%s", result.Err.Message)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "response (status %d) written to %s\n", result.Status, req.OutputPath)
		return nil
	},
}

func init() {
	bridgeCmd.Flags().StringVarP(&bridgeInput, "input", "i", "", "input YAML document")
	bridgeCmd.Flags().StringVarP(&bridgeOutput, "output", "o", "", "output YAML document")
	bridgeCmd.Flags().StringSliceVar(&bridgeInputKeys, "input-key", nil, "input key path, outermost first (repeatable)")
	bridgeCmd.Flags().StringSliceVar(&bridgeOutputKeys, "output-key", nil, "output key path; omit entirely to write the raw response")
	bridgeCmd.Flags().StringVarP(&bridgeURL, "url", "u", "", "endpoint URL")
	bridgeCmd.Flags().StringVarP(&bridgeMethod, "method", "m", "", "HTTP method (default POST)")
}
