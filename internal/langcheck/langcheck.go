// Package langcheck validates that a free-text field value is in the
// language the field requires. It applies only to providers that serve
// several localized variants at the same endpoint, where provider order
// alone cannot guarantee the right locale.
package langcheck

import (
	"github.com/abadojack/whatlanggo"

	"github.com/lepinkainen/argos/internal/metadata"
)

// Conforms reports whether text matches the required target language.
// Classification is statistical top-1: no confidence threshold, the
// detected language either matches or it does not. The caller treats a
// mismatch as a soft rejection (the value stays eligible as a backup).
func Conforms(text string, required metadata.Language) bool {
	if text == "" {
		return false
	}
	detected := whatlanggo.Detect(text).Lang
	if required == metadata.LangNative {
		return detected == whatlanggo.Jpn
	}
	// For the Chinese variants the useful signal is "not Japanese":
	// short titles in simplified vs. traditional script are routinely
	// confused with each other, but rarely with Japanese kana.
	return detected != whatlanggo.Jpn
}
