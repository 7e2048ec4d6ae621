package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rmacdonaldsmith/umesh-go/internal/authtoken"
	"github.com/rmacdonaldsmith/umesh-go/pkg/attributes"
	"github.com/spf13/cobra"
)

// errHashMismatch is returned by decode --check-hash
var errHashMismatch = errors.New("payload digest does not match hash attribute")

func newDecodeCommand() *cobra.Command {
	var (
		in           string
		verifySecret string
		checkHash    bool
		payloadOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode an envelope and print its attributes and payload",
		Long: `Read an envelope in the selected --format from --in or stdin and print
its attributes followed by the payload. Decoding fails on malformed input
without printing partial attributes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := decodeEnvelope(cmd, in)
			if err != nil {
				return err
			}
			attrs := env.Attributes

			if checkHash && attrs.Hash() != attributes.Digest(env.Payload) {
				return errHashMismatch
			}
			if verifySecret != "" {
				issuer, err := authtoken.NewIssuer(authtoken.Config{Secret: verifySecret})
				if err != nil {
					return err
				}
				if _, err := issuer.Verify(attrs); err != nil {
					return err
				}
				logger.Debug("token verified", "subject", attrs.Source().String())
			}
			if attrs.IsExpired(time.Now()) {
				logger.Warn("message has expired", "id", attrs.ID())
			}

			if payloadOnly {
				_, err := cmd.OutOrStdout().Write(env.Payload)
				return err
			}
			printAttributes(cmd.OutOrStdout(), attrs)
			fmt.Fprintf(cmd.OutOrStdout(), "payload:  %q\n", env.Payload)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "Read the envelope from a file instead of stdin")
	cmd.Flags().StringVar(&verifySecret, "verify-secret", "", "Verify the token was issued to the source with this secret")
	cmd.Flags().BoolVar(&checkHash, "check-hash", false, "Fail unless the hash is the BLAKE3 digest of the payload")
	cmd.Flags().BoolVar(&payloadOnly, "payload-only", false, "Write only the raw payload")

	return cmd
}

func printAttributes(w io.Writer, attrs *attributes.Attributes) {
	fmt.Fprintf(w, "id:       %s\n", attrs.ID())
	if created, ok := attrs.CreatedAt(); ok {
		fmt.Fprintf(w, "created:  %s\n", created.UTC().Format(time.RFC3339Nano))
	}
	fmt.Fprintf(w, "type:     %s\n", attrs.Type())
	fmt.Fprintf(w, "source:   %s\n", attrs.Source())
	if attrs.HasSink() {
		fmt.Fprintf(w, "sink:     %s\n", attrs.Sink())
	}
	fmt.Fprintf(w, "priority: %s\n", attrs.Priority())
	if ttl, ok := attrs.TTL(); ok {
		fmt.Fprintf(w, "ttl:      %s\n", ttl)
	}
	if attrs.Hash() != "" {
		fmt.Fprintf(w, "hash:     %s\n", attrs.Hash())
	}
	if attrs.Token() != "" {
		fmt.Fprintf(w, "token:    %s\n", attrs.Token())
	}
	if attrs.ReqID() != "" {
		fmt.Fprintf(w, "reqid:    %s\n", attrs.ReqID())
	}
}
