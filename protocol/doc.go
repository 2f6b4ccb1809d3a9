// Package protocol defines the wire envelope shared by every transport
// and both peers.
//
// The envelope is a fixed-layout frame: a 4-byte header followed by the
// message fields in a fixed order, numeric fields big-endian, text
// fields null-padded to a fixed width. Both peers must agree on the
// exact layout; the header's version byte rejects mismatched builds.
//
//	offset size field
//	     0    2 magic "BC"
//	     2    1 version (currently 1)
//	     3    1 tag
//	     4   64 game name
//	    68   32 player name
//	   100    4 max players (int32)
//	   104   16 guess (4 x int32)
//	   120    4 result.bulls (int32)
//	   124    4 result.cows (int32)
//	   128    4 result.attempt (int32)
//	   132   32 result.player name
//	   164  256 error message
//	   420    4 game count (int32)
//	   424    4 player count (int32)
//	   428    4 winner flag (int32, 0 or 1)
//
// Every frame is exactly FrameSize (432) bytes. The codec round-trips
// field values byte-for-byte and performs no semantic validation; that
// is the command handlers' job.
package protocol
