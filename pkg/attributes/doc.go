// Package attributes provides the protocol metadata carried by every uMesh
// message.
//
// Attributes are built once from an Options value and are immutable
// afterwards:
//
//	ttl := 3 * time.Millisecond
//	attrs, err := attributes.New(attributes.Options{
//		Source:   source,
//		Priority: attributes.PriorityNetworkControl,
//		TTL:      &ttl,
//		Hash:     attributes.Digest(payload),
//		Token:    token,
//	})
//	if err != nil {
//		return err
//	}
//
// Omitted options take their defaults: a generated UUIDv7 id, the publish
// message type, standard priority and no expiry.
package attributes
