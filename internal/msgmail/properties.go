package msgmail

import (
	"encoding/binary"
	"time"
)

// Fixed-property stream layout constants from MS-OXMSG. The top-level stream
// opens with a 32-byte header followed by 16-byte property entries of
// tag, flags, and an 8-byte value.
const (
	topLevelHeaderSize = 32
	propertyEntrySize  = 16

	tagClientSubmitTime    = 0x00390040 // PidTagClientSubmitTime, PT_SYSTIME
	tagMessageDeliveryTime = 0x0E060040 // PidTagMessageDeliveryTime, PT_SYSTIME
)

// sentDateFromProperties scans the raw property stream for the submit time,
// falling back to the delivery time.
func sentDateFromProperties(raw []byte) (time.Time, bool) {
	if len(raw) <= topLevelHeaderSize {
		return time.Time{}, false
	}

	var delivery time.Time
	haveDelivery := false

	for offset := topLevelHeaderSize; offset+propertyEntrySize <= len(raw); offset += propertyEntrySize {
		tag := binary.LittleEndian.Uint32(raw[offset:])
		switch tag {
		case tagClientSubmitTime:
			value := binary.LittleEndian.Uint64(raw[offset+8:])
			if t, ok := filetimeToTime(value); ok {
				return t, true
			}
		case tagMessageDeliveryTime:
			value := binary.LittleEndian.Uint64(raw[offset+8:])
			if t, ok := filetimeToTime(value); ok {
				delivery, haveDelivery = t, true
			}
		}
	}

	return delivery, haveDelivery
}

// filetimeToTime converts a Windows FILETIME (100ns ticks since 1601-01-01
// UTC) to a time.Time. The conversion goes through Unix seconds because a
// time.Duration cannot represent the four centuries between the two epochs.
func filetimeToTime(filetime uint64) (time.Time, bool) {
	if filetime == 0 {
		return time.Time{}, false
	}
	const (
		ticksPerSecond    = 10_000_000
		epochDeltaSeconds = 11_644_473_600 // 1601-01-01 to 1970-01-01
	)
	secs := int64(filetime/ticksPerSecond) - epochDeltaSeconds
	nsec := int64(filetime%ticksPerSecond) * 100
	return time.Unix(secs, nsec).UTC(), true
}
