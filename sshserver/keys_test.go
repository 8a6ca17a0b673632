package sshserver

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"pkt.systems/matrixterm/core"
)

func decode(t *testing.T, input string) []core.Key {
	t.Helper()
	out := make(chan core.Key, 64)
	readKeys(context.Background(), strings.NewReader(input), out)
	var keys []core.Key
	for k := range out {
		keys = append(keys, k)
	}
	return keys
}

func TestReadKeysEscapeSequences(t *testing.T) {
	got := decode(t, "\x1b[A\x1b[B\x1b[C\x1b[D\x1b[H\x1b[F\x1b[5~\x1b[6~\x1b[3~\x1bOH\x1bb\x1bf")
	want := []core.Key{
		{Kind: core.KeyUp},
		{Kind: core.KeyDown},
		{Kind: core.KeyRight},
		{Kind: core.KeyLeft},
		{Kind: core.KeyHome},
		{Kind: core.KeyEnd},
		{Kind: core.KeyPageUp},
		{Kind: core.KeyPageDown},
		{Kind: core.KeyDelete},
		{Kind: core.KeyHome},
		{Kind: core.KeyAltB},
		{Kind: core.KeyAltF},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected keys (-want +got):\n%s", diff)
	}
}

func TestReadKeysControlBytes(t *testing.T) {
	got := decode(t, "a\x01\x05\x03\x04\x09\x0b\x15\x17\x7f\r\nb")
	want := []core.Key{
		{Kind: core.KeyRune, Rune: 'a'},
		{Kind: core.KeyHome},
		{Kind: core.KeyEnd},
		{Kind: core.KeyCtrlC},
		{Kind: core.KeyCtrlD},
		{Kind: core.KeyTab},
		{Kind: core.KeyCtrlK},
		{Kind: core.KeyCtrlU},
		{Kind: core.KeyCtrlW},
		{Kind: core.KeyBackspace},
		{Kind: core.KeyEnter},
		{Kind: core.KeyRune, Rune: 'b'},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected keys (-want +got):\n%s", diff)
	}
}

func TestReadKeysLoneEscapeAndFocus(t *testing.T) {
	got := decode(t, "\x1b[I\x1b[O\x1b")
	want := []core.Key{
		{Kind: core.KeyFocusIn},
		{Kind: core.KeyFocusOut},
		{Kind: core.KeyEscape},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected keys (-want +got):\n%s", diff)
	}
}

func TestReadKeysUTF8(t *testing.T) {
	got := decode(t, "né\x1b[Zx")
	want := []core.Key{
		{Kind: core.KeyRune, Rune: 'n'},
		{Kind: core.KeyRune, Rune: 'é'},
		{Kind: core.KeyRune, Rune: 'x'},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected keys (-want +got):\n%s", diff)
	}
}

func TestReadKeysStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := make(chan core.Key)
	done := make(chan struct{})
	go func() {
		readKeys(ctx, strings.NewReader("abc"), out)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("readKeys blocked on an unread key after cancellation")
	}
	if _, ok := <-out; ok {
		t.Fatalf("expected out to be closed")
	}
}
