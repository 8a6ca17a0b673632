package sshserver

import (
	"bufio"
	"context"
	"io"
	"unicode"
	"unicode/utf8"

	"pkt.systems/matrixterm/core"
)

// readKeys decodes raw terminal input into key presses until r fails or
// ctx is done. out is closed on return.
func readKeys(ctx context.Context, r io.Reader, out chan<- core.Key) {
	defer close(out)
	br := bufio.NewReader(r)
	lastWasCR := false
	for {
		b, err := br.ReadByte()
		if err != nil {
			return
		}
		if lastWasCR {
			lastWasCR = false
			if b == '\n' {
				continue
			}
		}
		if b == '\r' {
			lastWasCR = true
		}
		k, ok, err := decodeKey(br, b)
		if err != nil {
			return
		}
		if !ok {
			continue
		}
		select {
		case out <- k:
		case <-ctx.Done():
			return
		}
	}
}

// decodeKey maps the byte b, plus whatever sequence it starts, to a key.
func decodeKey(br *bufio.Reader, b byte) (core.Key, bool, error) {
	switch b {
	case 0x1b:
		if br.Buffered() == 0 {
			return core.Key{Kind: core.KeyEscape}, true, nil
		}
		k, ok := readEscape(br)
		return k, ok, nil
	case '\r', '\n':
		return core.Key{Kind: core.KeyEnter}, true, nil
	case 0x7f, 0x08:
		return core.Key{Kind: core.KeyBackspace}, true, nil
	case 0x01:
		return core.Key{Kind: core.KeyHome}, true, nil
	case 0x05:
		return core.Key{Kind: core.KeyEnd}, true, nil
	case 0x02:
		return core.Key{Kind: core.KeyLeft}, true, nil
	case 0x06:
		return core.Key{Kind: core.KeyRight}, true, nil
	case 0x10:
		return core.Key{Kind: core.KeyUp}, true, nil
	case 0x0e:
		return core.Key{Kind: core.KeyDown}, true, nil
	case 0x15:
		return core.Key{Kind: core.KeyCtrlU}, true, nil
	case 0x0b:
		return core.Key{Kind: core.KeyCtrlK}, true, nil
	case 0x17:
		return core.Key{Kind: core.KeyCtrlW}, true, nil
	case 0x04:
		return core.Key{Kind: core.KeyCtrlD}, true, nil
	case 0x03:
		return core.Key{Kind: core.KeyCtrlC}, true, nil
	case 0x09:
		return core.Key{Kind: core.KeyTab}, true, nil
	default:
		if b < 0x20 {
			return core.Key{}, false, nil
		}
		if b < utf8.RuneSelf {
			return core.Key{Kind: core.KeyRune, Rune: rune(b)}, true, nil
		}
		_ = br.UnreadByte()
		rn, _, err := br.ReadRune()
		if err != nil {
			return core.Key{}, false, err
		}
		if rn == utf8.RuneError {
			return core.Key{}, false, nil
		}
		return core.Key{Kind: core.KeyRune, Rune: rn}, true, nil
	}
}

func readEscape(br *bufio.Reader) (core.Key, bool) {
	b, err := br.ReadByte()
	if err != nil {
		return core.Key{}, false
	}
	switch b {
	case '[':
		return readCSI(br)
	case 'O':
		return readSS3(br)
	case 0x1b:
		return core.Key{Kind: core.KeyEscape}, true
	case 'b', 'B':
		return core.Key{Kind: core.KeyAltB}, true
	case 'f', 'F':
		return core.Key{Kind: core.KeyAltF}, true
	}
	return core.Key{}, false
}

func readCSI(br *bufio.Reader) (core.Key, bool) {
	seq := []byte{}
	for {
		b, err := br.ReadByte()
		if err != nil {
			return core.Key{}, false
		}
		seq = append(seq, b)
		if b == '~' || unicode.IsLetter(rune(b)) {
			break
		}
		if len(seq) > 8 {
			return core.Key{}, false
		}
	}
	switch string(seq) {
	case "A":
		return core.Key{Kind: core.KeyUp}, true
	case "B":
		return core.Key{Kind: core.KeyDown}, true
	case "C":
		return core.Key{Kind: core.KeyRight}, true
	case "D":
		return core.Key{Kind: core.KeyLeft}, true
	case "H", "1~", "7~":
		return core.Key{Kind: core.KeyHome}, true
	case "F", "4~", "8~":
		return core.Key{Kind: core.KeyEnd}, true
	case "5~":
		return core.Key{Kind: core.KeyPageUp}, true
	case "6~":
		return core.Key{Kind: core.KeyPageDown}, true
	case "3~":
		return core.Key{Kind: core.KeyDelete}, true
	case "I":
		return core.Key{Kind: core.KeyFocusIn}, true
	case "O":
		return core.Key{Kind: core.KeyFocusOut}, true
	}
	return core.Key{}, false
}

func readSS3(br *bufio.Reader) (core.Key, bool) {
	b, err := br.ReadByte()
	if err != nil {
		return core.Key{}, false
	}
	switch b {
	case 'A':
		return core.Key{Kind: core.KeyUp}, true
	case 'B':
		return core.Key{Kind: core.KeyDown}, true
	case 'C':
		return core.Key{Kind: core.KeyRight}, true
	case 'D':
		return core.Key{Kind: core.KeyLeft}, true
	case 'H':
		return core.Key{Kind: core.KeyHome}, true
	case 'F':
		return core.Key{Kind: core.KeyEnd}, true
	}
	return core.Key{}, false
}
