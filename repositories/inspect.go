package repositories

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Entry is a human readable view of one raw key/value of the store.
type Entry struct {
	Key    string
	Kind   string
	Detail string
}

// Inspect decodes a raw key/value according to its key prefix.
// Unknown or undecodable values keep an empty detail.
func Inspect(key string, val []byte) Entry {
	entry := Entry{Key: key, Kind: "UNKNOWN"}
	switch {
	case strings.HasPrefix(key, chatPrefix):
		entry.Kind = "CHAT"
		var record structpb.Struct
		if err := proto.Unmarshal(val, &record); err != nil {
			return entry
		}
		if m, err := toChatMessage(&record); err == nil {
			entry.Detail = fmt.Sprintf("%s: %s", m.Author, m.Content)
		}
	case strings.HasPrefix(key, orderPrefix):
		entry.Kind = "ORDER"
		var o domain.Order
		if err := json.Unmarshal(val, &o); err == nil {
			entry.Detail = fmt.Sprintf("%s %s %s", o.Reference, o.Status, o.Customer)
		}
	case strings.HasPrefix(key, signaturePrefix):
		entry.Kind = "SIGNATURE"
		var s domain.Signature
		if err := json.Unmarshal(val, &s); err == nil {
			entry.Detail = fmt.Sprintf("%s %d bytes", s.MimeType, len(s.Image))
		}
	case strings.HasPrefix(key, userPrefix):
		entry.Kind = "USER"
		var record structpb.Struct
		if err := proto.Unmarshal(val, &record); err == nil {
			u := toUser(&record)
			entry.Detail = fmt.Sprintf("%s <%s>", u.Name, u.Email)
		}
	case strings.HasPrefix(key, blacklistPrefix):
		entry.Kind = "BLACKLIST"
		entry.Detail = strings.TrimPrefix(key, blacklistPrefix)
	}
	return entry
}
