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
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/valpere/pereval/internal/config"
	"github.com/valpere/pereval/internal/orchestrator"
	"github.com/valpere/pereval/internal/provider"
)

// buildProviders constructs the provider registry in configuration order.
func buildProviders(ctx context.Context, cfgs []provider.Config) ([]provider.Provider, error) {
	list := make([]provider.Provider, 0, len(cfgs))
	for _, c := range cfgs {
		p, err := provider.New(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("building provider %q: %w", c.Name, err)
		}
		clog.FromContext(ctx).Debugf("registered provider %s (%s)", p.Name(), c.Kind)
		list = append(list, p)
	}
	return list, nil
}

// newOrchestrator wires the configured providers into an orchestrator.
func newOrchestrator(ctx context.Context, cfg *config.Config) (*orchestrator.Orchestrator, error) {
	providers, err := buildProviders(ctx, cfg.Providers)
	if err != nil {
		return nil, err
	}
	return orchestrator.New(providers, orchestrator.OrchestratorConfig{
		MaxConcurrency: cfg.Engine.MaxConcurrency,
		Timeout:        cfg.Engine.CallTimeout,
	})
}
