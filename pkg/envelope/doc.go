// Package envelope serializes message attributes and payloads for the
// transport boundary.
//
// Two stateless encodings are available, selected by Format at the call
// site rather than by inspecting content:
//   - FormatJSON: a CloudEvents-style JSON object with the payload carried
//     as base64 in "data_base64"
//   - FormatBinary: protobuf wire format fields behind a magic byte, a
//     version byte and the body length
//
// Example usage:
//
//	codec, err := envelope.New(envelope.FormatBinary)
//	if err != nil {
//		return err
//	}
//	data, err := codec.Serialize(attrs, payload)
//	if err != nil {
//		return err
//	}
//	attrs, payload, err = codec.Deserialize(data)
//	if errors.Is(err, envelope.ErrMalformedEnvelope) {
//		// corrupt, truncated or unsupported input
//	}
//
// Payloads are always opaque bytes. An empty payload deserializes as nil.
package envelope
