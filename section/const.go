package section

// Byte offsets and sizes of the fixed container header.
//
// Layout: magic(4) | version(1) | table_length(u32 LE)
const (
	MagicOffset    = 0 // byte offset of the 4-byte magic
	VersionOffset  = 4 // byte offset of the version byte
	TableLenOffset = 5 // byte offset of the table length field
	HeaderSize     = 9 // fixed header size in bytes
)
