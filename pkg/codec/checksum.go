package codec

import "github.com/snksoft/crc"

// cksum is CRC-32/CKSUM without the trailing length cksum(1) appends.
var cksum = &crc.Parameters{
	Width:      32,
	Polynomial: 0x04C11DB7,
	Init:       0x00000000,
	ReflectIn:  false,
	ReflectOut: false,
	FinalXor:   0xFFFFFFFF,
}

var cksumTable = crc.NewTable(cksum)

// Checksum computes CRC-32/CKSUM over b
func Checksum(b []byte) uint32 {
	return uint32(cksumTable.CalculateCRC(b))
}
