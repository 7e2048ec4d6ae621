package main

import (
	"fmt"
	"io"

	"github.com/rmacdonaldsmith/umesh-go/pkg/uri"
	"github.com/spf13/cobra"
)

func newURICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uri",
		Short: "Inspect uMesh addresses",
	}

	cmd.AddCommand(newURIParseCommand())

	return cmd
}

func newURIParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <uri>...",
		Short: "Parse addresses and print their forms and parts",
		Long: `Parse one or more addresses in long form (/entity/1/resource.instance#Message),
short form (//10.0.0.1/10203/1/39999) or the wildcard "*", and print the
forms each can be rendered in together with its parts.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, arg := range args {
				u, err := uri.Parse(arg)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				printURI(cmd.OutOrStdout(), u)
			}
			return nil
		},
	}
}

func printURI(w io.Writer, u uri.URI) {
	fmt.Fprintf(w, "uri:       %s\n", u)
	if u.IsAny() {
		fmt.Fprintf(w, "wildcard:  matches every address\n")
		return
	}

	fmt.Fprintf(w, "form:      %s\n", u.Form())
	if long, err := u.LongString(); err == nil {
		fmt.Fprintf(w, "long:      %s\n", long)
	}
	if short, err := u.ShortString(); err == nil {
		fmt.Fprintf(w, "short:     %s\n", short)
	}

	authority, entity, resource := u.Parts()
	fmt.Fprintf(w, "authority: %s (%s)\n", authorityLabel(authority), authority.Forms())
	fmt.Fprintf(w, "entity:    %s (%s)\n", entity, entity.Forms())
	fmt.Fprintf(w, "resource:  %s (%s)\n", resource, resource.Forms())
	fmt.Fprintf(w, "rpc:       %t\n", u.IsRPCMethod())
	fmt.Fprintf(w, "pattern:   %t\n", u.IsPattern())
}

func authorityLabel(a uri.Authority) string {
	if a.IsLocal() {
		return "local"
	}
	return a.String()
}
