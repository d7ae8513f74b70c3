/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/valpere/pereval/internal/server"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the evaluation HTTP API",
	Long: `Start the HTTP API.

Routes:
  GET  /              welcome message
  GET  /llm           route banner
  POST /llm/generate  {"prompt": "..."} -> evaluation result
  GET  /healthz       health check
  GET  /metrics       Prometheus metrics

The listen address defaults to :3000, or :$PORT when PORT is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		orch, err := newOrchestrator(ctx, appConfig)
		if err != nil {
			return err
		}

		addr := appConfig.Server.Addr
		if listenAddr != "" {
			addr = listenAddr
		}

		srv := server.New(server.Config{
			Addr:            addr,
			ShutdownTimeout: appConfig.Server.ShutdownTimeout,
		}, orch)
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (overrides server.addr)")
}
