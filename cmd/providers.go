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

	"github.com/valpere/pereval/internal/report"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the configured providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return report.WriteProviders(cmd.OutOrStdout(), appConfig.Providers)
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
