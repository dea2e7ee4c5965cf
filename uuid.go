package hub

import "github.com/google/uuid"

// Service and characteristic UUIDs for the vendor GATT service, parsed
// once at init instead of hand-maintaining byte arrays.
var (
	ServiceUUID        = uuid.MustParse("CC2AF14A-2AAF-4C6E-B2E4-3856EE2B4267")
	CharacteristicUUID = uuid.MustParse("45CC8E0B-8507-45F7-AC95-B798D0FD732A")
)
