package main

import (
	"fmt"
	"time"

	"github.com/rmacdonaldsmith/umesh-go/internal/authtoken"
	"github.com/rmacdonaldsmith/umesh-go/pkg/attributes"
	"github.com/rmacdonaldsmith/umesh-go/pkg/envelope"
	"github.com/rmacdonaldsmith/umesh-go/pkg/uri"
	"github.com/spf13/cobra"
)

type encodeOptions struct {
	id          string
	msgType     string
	source      string
	sink        string
	priority    string
	ttl         time.Duration
	hash        string
	hashPayload bool
	token       string
	tokenSecret string
	reqID       string
	payload     string
	payloadFile string
	out         string
}

func newEncodeCommand() *cobra.Command {
	var opts encodeOptions

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Build message attributes and write an encoded envelope",
		Long: `Build message attributes from flags, attach a payload and write the
envelope in the selected --format. The payload comes from --payload,
--payload-file, or is empty.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.source, "source", "", "Source address (required)")
	cmd.Flags().StringVar(&opts.sink, "sink", "", "Sink address")
	cmd.Flags().StringVar(&opts.id, "id", "", "Message id (UUID); generated when omitted")
	cmd.Flags().StringVar(&opts.msgType, "type", "", "Message type: pub.v1, req.v1, res.v1 or not.v1")
	cmd.Flags().StringVar(&opts.priority, "priority", "", "Priority class CS0..CS6 (default CS1)")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", 0, "Time to live in whole milliseconds; omitted means no expiry")
	cmd.Flags().StringVar(&opts.hash, "hash", "", "Opaque integrity hash")
	cmd.Flags().BoolVar(&opts.hashPayload, "hash-payload", false, "Set the hash to the BLAKE3 digest of the payload")
	cmd.Flags().StringVar(&opts.token, "token", "", "Opaque security token")
	cmd.Flags().StringVar(&opts.tokenSecret, "token-secret", "", "Issue a signed token for the source with this secret")
	cmd.Flags().StringVar(&opts.reqID, "reqid", "", "Id of the request a response answers")
	cmd.Flags().StringVar(&opts.payload, "payload", "", "Payload as a string")
	cmd.Flags().StringVar(&opts.payloadFile, "payload-file", "", "Read the payload from a file")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write the envelope to a file instead of stdout")
	if err := cmd.MarkFlagRequired("source"); err != nil {
		panic(fmt.Sprintf("Failed to mark source as required: %v", err))
	}
	cmd.MarkFlagsMutuallyExclusive("payload", "payload-file")
	cmd.MarkFlagsMutuallyExclusive("hash", "hash-payload")
	cmd.MarkFlagsMutuallyExclusive("token", "token-secret")

	return cmd
}

func runEncode(cmd *cobra.Command, opts encodeOptions) error {
	attrOpts, err := opts.attributes(cmd)
	if err != nil {
		return err
	}

	var payload []byte
	if opts.payloadFile != "" {
		if payload, err = readInput(cmd, opts.payloadFile); err != nil {
			return err
		}
	} else if opts.payload != "" {
		payload = []byte(opts.payload)
	}

	if opts.hashPayload {
		attrOpts.Hash = attributes.Digest(payload)
	}
	if opts.tokenSecret != "" {
		issuer, err := authtoken.NewIssuer(authtoken.Config{Secret: opts.tokenSecret})
		if err != nil {
			return err
		}
		token, expiresAt, err := issuer.Issue(attrOpts.Source, attrOpts.Sink)
		if err != nil {
			return err
		}
		attrOpts.Token = token
		logger.Debug("issued token", "subject", attrOpts.Source.String(), "expires_at", expiresAt)
	}

	attrs, err := attributes.New(attrOpts)
	if err != nil {
		return err
	}

	data, err := envelope.Encode(format, envelope.Envelope{Attributes: attrs, Payload: payload})
	if err != nil {
		return err
	}
	logger.Debug("encoded envelope", "id", attrs.ID(), "format", format.String(), "bytes", len(data))

	if format == envelope.FormatJSON && (opts.out == "" || opts.out == "-") {
		data = append(data, '\n')
	}
	return writeOutput(cmd, opts.out, data)
}

// attributes converts the string flags into attribute options
func (o encodeOptions) attributes(cmd *cobra.Command) (attributes.Options, error) {
	attrOpts := attributes.Options{
		ID:    o.id,
		Hash:  o.hash,
		Token: o.token,
		ReqID: o.reqID,
	}

	var err error
	if attrOpts.Source, err = uri.Parse(o.source); err != nil {
		return attrOpts, fmt.Errorf("source: %w", err)
	}
	if o.sink != "" {
		if attrOpts.Sink, err = uri.Parse(o.sink); err != nil {
			return attrOpts, fmt.Errorf("sink: %w", err)
		}
	}
	if o.msgType != "" {
		if attrOpts.Type, err = attributes.ParseType(o.msgType); err != nil {
			return attrOpts, err
		}
	}
	if o.priority != "" {
		if attrOpts.Priority, err = attributes.ParsePriority(o.priority); err != nil {
			return attrOpts, err
		}
	}
	if cmd.Flags().Changed("ttl") {
		ttl := o.ttl
		attrOpts.TTL = &ttl
	}
	return attrOpts, nil
}
