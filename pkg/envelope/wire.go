package envelope

import (
	"fmt"
	"math"
	"time"

	"github.com/rmacdonaldsmith/umesh-go/pkg/uri"
)

// maxTTLMillis keeps ttl conversions inside time.Duration.
const maxTTLMillis = math.MaxInt64 / int64(time.Millisecond)

// wireURI carries every part of a URI individually, so parts with more
// forms than the URI as a whole survive the round-trip.
type wireURI struct {
	Authority   string  `json:"authority,omitempty"`
	UEName      string  `json:"ue_name,omitempty"`
	UEID        uint16  `json:"ue_id,omitempty"`
	UEVersion   uint8   `json:"ue_version,omitempty"`
	AnyVersion  bool    `json:"ue_any_version,omitempty"`
	Resource    string  `json:"resource,omitempty"`
	Instance    string  `json:"instance,omitempty"`
	Message     string  `json:"message,omitempty"`
	ResourceID  *uint16 `json:"resource_id,omitempty"`
	AnyInstance bool    `json:"any_instance,omitempty"`
}

func toWireURI(u uri.URI) wireURI {
	authority, entity, resource := u.Parts()
	w := wireURI{
		Authority:   authority.String(),
		UEName:      entity.Name(),
		UEID:        entity.ID(),
		UEVersion:   entity.MajorVersion(),
		AnyVersion:  entity.IsAnyVersion(),
		Resource:    resource.Name(),
		Instance:    resource.Instance(),
		Message:     resource.Message(),
		AnyInstance: resource.IsAnyInstance(),
	}
	if id, ok := resource.ID(); ok {
		w.ResourceID = &id
	}
	return w
}

func (w wireURI) toURI() (uri.URI, error) {
	authority, err := uri.ParseAuthority(w.Authority)
	if err != nil {
		return uri.URI{}, err
	}

	entity, err := uri.NewEntity(w.UEName, int(w.UEID), int(w.UEVersion))
	if err != nil {
		return uri.URI{}, err
	}
	if w.AnyVersion {
		entity = entity.WithAnyVersion()
	}

	var resource uri.Resource
	switch {
	case w.Resource != "" && w.ResourceID != nil:
		resource, err = uri.NewResolvedResource(w.Resource, w.Instance, w.Message, int(*w.ResourceID))
	case w.Resource != "":
		resource, err = uri.NewLongResource(w.Resource, w.Instance, w.Message)
	case w.ResourceID != nil:
		resource, err = uri.NewShortResource(int(*w.ResourceID))
	default:
		err = fmt.Errorf("%w: resource has no name or id", uri.ErrInvalidAddressComponent)
	}
	if err != nil {
		return uri.URI{}, err
	}
	if w.AnyInstance {
		resource = resource.WithAnyInstance()
	}

	return uri.New(authority, entity, resource)
}

func ttlMillis(ttl time.Duration) int64 {
	return int64(ttl / time.Millisecond)
}

func ttlFromMillis(ms int64) (time.Duration, error) {
	if ms < 0 || ms > maxTTLMillis {
		return 0, fmt.Errorf("ttl %d ms out of range", ms)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
