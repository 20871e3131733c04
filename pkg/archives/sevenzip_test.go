package archives

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"

	"github.com/nbrowse-run/nbrowse/pkg/paths"
)

func TestSevenZipCodecRejectsGarbageWithoutPrompting(t *testing.T) {
	t.Parallel()

	prompts := 0
	opts := OpenOptions{
		Password: func(prompt string) (string, error) {
			prompts++
			return "hunter2", nil
		},
	}
	garbage := []byte("this is not a container at all, just a pile of ordinary bytes.....")
	codec := SevenZipCodec{}
	_, err := codec.Open(bytes.NewReader(garbage), int64(len(garbage)), opts)
	if !errors.Is(err, paths.ErrUnreadableArchive) {
		t.Errorf("got %v, expected ErrUnreadableArchive", err)
	}
	if prompts != 0 {
		t.Errorf("a corrupt source prompted for a password %d times, expected none", prompts)
	}
}

func TestSevenZipCodecPromptsForRealSignature(t *testing.T) {
	t.Parallel()

	// A valid 7z signature followed by garbage: decoding fails, and with no way to tell
	// encrypted headers from corruption the password callback gets its attempts before the
	// source is reported unreadable.
	data := append([]byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}, bytes.Repeat([]byte{0xFF}, 64)...)
	prompts := 0
	opts := OpenOptions{
		Password: func(prompt string) (string, error) {
			prompts++
			return "hunter2", nil
		},
	}
	codec := SevenZipCodec{}
	_, err := codec.Open(bytes.NewReader(data), int64(len(data)), opts)
	if !errors.Is(err, paths.ErrUnreadableArchive) {
		t.Errorf("got %v, expected ErrUnreadableArchive", err)
	}
	if prompts != maxPasswordAttempts {
		t.Errorf("got %d password prompts, expected %d", prompts, maxPasswordAttempts)
	}
}
