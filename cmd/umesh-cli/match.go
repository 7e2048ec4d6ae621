package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rmacdonaldsmith/umesh-go/internal/routingtable"
	"github.com/rmacdonaldsmith/umesh-go/pkg/attributes"
	"github.com/rmacdonaldsmith/umesh-go/pkg/filter"
	routingtablepkg "github.com/rmacdonaldsmith/umesh-go/pkg/routingtable"
	"github.com/rmacdonaldsmith/umesh-go/pkg/uri"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Rule is one named filter in a rules file. Omitted addresses match anything.
//
//	rules:
//	  - name: door-watcher
//	    source: /body.access/*/door.*
//	  - name: hvac-requests
//	    sink: /hvac/2/rpc.SetTemperature
type Rule struct {
	Name   string  `yaml:"name"`
	Source uri.URI `yaml:"source"`
	Sink   uri.URI `yaml:"sink"`
}

// RuleSet is the document read by match --rules
type RuleSet struct {
	Rules []Rule `yaml:"rules"`
}

var errNoRules = errors.New("rules file declares no rules")

// loadRules reads and validates a rules file
func loadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules %s: %w", path, err)
	}

	var set RuleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parsing rules %s: %w", path, err)
	}
	if len(set.Rules) == 0 {
		return nil, errNoRules
	}

	seen := make(map[string]bool, len(set.Rules))
	for i, rule := range set.Rules {
		if rule.Name == "" {
			return nil, fmt.Errorf("rule %d has no name", i)
		}
		if seen[rule.Name] {
			return nil, fmt.Errorf("duplicate rule name %q", rule.Name)
		}
		seen[rule.Name] = true
	}
	return set.Rules, nil
}

func newMatchCommand() *cobra.Command {
	var (
		rulesPath string
		in        string
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Report which rules match an encoded message",
		Long: `Load named source/sink filters from a YAML rules file, decode one envelope
from --in or stdin, and print the name of every rule whose filter matches
the message, in name order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := loadRules(rulesPath)
			if err != nil {
				return err
			}
			env, err := decodeEnvelope(cmd, in)
			if err != nil {
				return err
			}

			names, err := matchRules(cmd.Context(), rules, env.Attributes)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no rules matched")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "Rules YAML file (required)")
	cmd.Flags().StringVarP(&in, "in", "i", "", "Read the envelope from a file instead of stdin")
	if err := cmd.MarkFlagRequired("rules"); err != nil {
		panic(fmt.Sprintf("Failed to mark rules as required: %v", err))
	}

	return cmd
}

// matchRules loads rules into a routing table and returns the names of the
// rules whose filters match attrs
func matchRules(ctx context.Context, rules []Rule, attrs *attributes.Attributes) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	table, err := routingtable.NewInMemoryRoutingTableWithConfig(routingtable.Config{Logger: logger})
	if err != nil {
		return nil, err
	}
	defer table.Close()

	for _, rule := range rules {
		f := filter.New(rule.Source, rule.Sink)
		if err := table.Subscribe(ctx, f, routingtablepkg.NewLocalSubscriber(rule.Name)); err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
	}

	subscribers, err := table.GetSubscribers(ctx, attrs)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(subscribers))
	for _, sub := range subscribers {
		names = append(names, sub.ID())
	}
	return names, nil
}
