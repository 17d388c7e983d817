// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package textdecode converts raw statement bytes into UTF-8 text.
//
// Japanese brokers export CSV files as Shift_JIS, while files that have been
// re-saved by other tools are usually UTF-8. Decoding never fails on invalid
// byte sequences: they are replaced with U+FFFD and counted, and the caller
// decides how many replacements it tolerates.
package textdecode

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

// Strategy selects how the input encoding is determined.
type Strategy string

const (
	// StrategyAuto uses UTF-8 when the input is valid UTF-8 and Shift_JIS otherwise.
	StrategyAuto Strategy = "auto"
	// StrategyShiftJIS always decodes as Shift_JIS.
	StrategyShiftJIS Strategy = "shift_jis"
	// StrategyUTF8 always decodes as UTF-8.
	StrategyUTF8 Strategy = "utf-8"
)

// Encoding names reported in Info.
const (
	EncodingUTF8     = "UTF-8"
	EncodingShiftJIS = "Shift_JIS"
)

// DefaultMaxReplacementRatio is the replacement ratio above which Decode fails.
const DefaultMaxReplacementRatio = 0.05

// utf8BOM is the byte order mark some spreadsheet tools prepend to UTF-8 files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseStrategy parses a string into a Strategy, returning an error for unknown strategies.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return StrategyAuto, nil
	case "shift_jis", "shift-jis", "sjis":
		return StrategyShiftJIS, nil
	case "utf-8", "utf8":
		return StrategyUTF8, nil
	default:
		return "", fmt.Errorf("unknown encoding %q, must be one of: auto, shift_jis, utf-8", s)
	}
}

// Info describes how the input was decoded.
type Info struct {
	// Encoding is the name of the encoding the input was decoded with.
	Encoding string
	// Replacements is the number of runes replaced with U+FFFD because the
	// input was invalid under Encoding.
	Replacements int
	// Runes is the number of runes in the decoded text.
	Runes int
}

// ReplacementRatio returns Replacements divided by Runes, or 0 for empty text.
func (i Info) ReplacementRatio() float64 {
	if i.Runes == 0 {
		return 0
	}
	return float64(i.Replacements) / float64(i.Runes)
}

// DecodeError is returned when the input cannot be interpreted as text.
type DecodeError struct {
	Info                Info
	MaxReplacementRatio float64
}

// Error implements error.
func (e *DecodeError) Error() string {
	return fmt.Sprintf(
		"could not decode input as text: %d of %d characters invalid as %s (max ratio %g)",
		e.Info.Replacements,
		e.Info.Runes,
		e.Info.Encoding,
		e.MaxReplacementRatio,
	)
}

// Decoder decodes raw bytes with a fixed strategy and tolerance.
type Decoder struct {
	strategy            Strategy
	maxReplacementRatio float64
}

// NewDecoder returns a new Decoder.
//
// A maxReplacementRatio of zero or less selects DefaultMaxReplacementRatio.
func NewDecoder(strategy Strategy, maxReplacementRatio float64) *Decoder {
	if maxReplacementRatio <= 0 {
		maxReplacementRatio = DefaultMaxReplacementRatio
	}
	return &Decoder{
		strategy:            strategy,
		maxReplacementRatio: maxReplacementRatio,
	}
}

// Decode decodes data into UTF-8 text.
//
// The returned text is always valid UTF-8. A *DecodeError is returned alongside
// the best-effort text when the replacement ratio exceeds the tolerance.
func (d *Decoder) Decode(data []byte) (string, Info, error) {
	text, info := decode(data, d.strategy)
	if info.ReplacementRatio() > d.maxReplacementRatio {
		return text, info, &DecodeError{
			Info:                info,
			MaxReplacementRatio: d.maxReplacementRatio,
		}
	}
	return text, info, nil
}

func decode(data []byte, strategy Strategy) (string, Info) {
	data = bytes.TrimPrefix(data, utf8BOM)
	switch strategy {
	case StrategyShiftJIS:
		return decodeShiftJIS(data)
	case StrategyUTF8:
		return decodeUTF8(data)
	default:
		if utf8.Valid(data) {
			return decodeUTF8(data)
		}
		return decodeShiftJIS(data)
	}
}

func decodeUTF8(data []byte) (string, Info) {
	if utf8.Valid(data) {
		text := string(data)
		return text, Info{
			Encoding: EncodingUTF8,
			Runes:    utf8.RuneCountInString(text),
		}
	}
	var replacements int
	var builder strings.Builder
	builder.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size <= 1 {
			replacements++
		}
		builder.WriteRune(r)
		data = data[size:]
	}
	text := builder.String()
	return text, Info{
		Encoding:     EncodingUTF8,
		Replacements: replacements,
		Runes:        utf8.RuneCountInString(text),
	}
}

func decodeShiftJIS(data []byte) (string, Info) {
	// The x/text decoders substitute U+FFFD for invalid sequences instead of failing.
	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(data)
	if err != nil {
		// Only reachable on internal transformer failures; fall back to byte-wise replacement.
		return decodeUTF8(data)
	}
	text := string(decoded)
	return text, Info{
		Encoding:     EncodingShiftJIS,
		Replacements: strings.Count(text, string(utf8.RuneError)),
		Runes:        utf8.RuneCountInString(text),
	}
}
