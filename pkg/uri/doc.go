// Package uri provides the addressing model for uMesh entities.
//
// An address (URI) is the triple of an Authority, an Entity and a Resource:
//   - Authority: the device/domain hosting the entity (or local)
//   - Entity: a named, versioned service or application
//   - Resource: a topic or RPC method exposed by the entity
//
// Every part can be rendered in one or both representation forms:
//   - long form: human readable names ("//vcu.vin/body.access/1/door.front_left#Door")
//   - short form: numeric ids and network addresses ("//10.0.0.1/10203/1/39999")
//
// A URI only exists if its three parts share at least one form. Parts that
// carry both names and ids are "resolved" and combine with either form.
//
// Wildcards:
//   - Any() is the address-level wildcard used by filters
//   - AnyAuthority(), Entity.WithAnyVersion and Resource.WithAnyInstance
//     are field-level wildcards inside an otherwise concrete pattern
//
// Example usage:
//
//	entity, err := uri.NewLongEntity("body.access", 1)
//	if err != nil {
//		return err
//	}
//	resource, err := uri.NewLongResource("door", "front_left", "Door")
//	if err != nil {
//		return err
//	}
//	topic, err := uri.New(uri.LocalAuthority(), entity, resource)
//	if err != nil {
//		return err
//	}
//	fmt.Println(topic) // "/body.access/1/door.front_left#Door"
//
// All values in this package are immutable and safe for concurrent use.
package uri
