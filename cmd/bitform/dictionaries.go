package main

import "github.com/cmj0121/bitform"

// init registers the built-in demo dictionaries the CLI can select
// between with `bitform <name> [file]`.
func init() {
	bitform.Dictionaries["ipv4-header"] = ipv4Header()
	bitform.Dictionaries["tlv"] = tlvMessage()
}

// ipv4Header is a trimmed IPv4 fixed header: version/IHL, DSCP/ECN,
// total length, flags/fragment offset, TTL/protocol, and the two
// addresses, demonstrating nested Sequence, Bits width packing, and Enum.
func ipv4Header() *bitform.SequenceToken {
	return bitform.Sequence("ipv4",
		bitform.Uint("version", 4),
		bitform.Uint("ihl", 4),
		bitform.Uint("dscp", 6),
		bitform.Uint("ecn", 2),
		bitform.Uint("total_length", 16),
		bitform.Uint("identification", 16),
		bitform.Bool("flag_reserved"),
		bitform.Bool("flag_dont_fragment"),
		bitform.Bool("flag_more_fragments"),
		bitform.Uint("fragment_offset", 13),
		bitform.Uint("ttl", 8),
		bitform.Enum("protocol", bitform.UintFmt(8), bitform.EnumMap{
			1:  "ICMP",
			6:  "TCP",
			17: "UDP",
		}),
		bitform.Uint("header_checksum", 16),
		bitform.String("source_address", 32),
		bitform.String("destination_address", 32),
	)
}

// tlvMessage is a count-prefixed repetition of tag/length/value records,
// each value's type (a 32-bit text or number) selected by the preceding
// tag field; the length byte is read but does not set the value's width.
// It demonstrates Repeat with a Ref-resolved count and Choice with a
// Ref-resolved selector.
func tlvMessage() *bitform.SequenceToken {
	record := bitform.SequenceOf(
		bitform.Uint("tag", 8),
		bitform.Uint("length", 8),
		bitform.ChoiceOf(bitform.FromRef("tag"), map[int64]any{
			0: bitform.String("text", 32),
			1: bitform.Uint("number", 32),
		}),
	)

	return bitform.Sequence("tlv",
		bitform.Uint("count", 8),
		bitform.Repeat("records", bitform.FromRef("count"), record),
	)
}
