package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/kith/internal/book"
	"github.com/starford/kith/internal/command"
)

func newConsole(t *testing.T, input string, opts ...Option) (*Console, *command.Session, *bytes.Buffer) {
	t.Helper()
	d, err := command.NewDispatcher(nil)
	require.NoError(t, err)
	s := command.NewSession(book.NewAddressBook(), book.NewNotesBook())
	out := &bytes.Buffer{}
	return New(d, s, strings.NewReader(input), out, opts...), s, out
}

func TestRun_ExitCommand(t *testing.T) {
	c, s, out := newConsole(t, "hello\nadd_contact John 1234567890\nclose\nhello\n")

	require.NoError(t, c.Run(context.Background()))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, Welcome+"\n"+Prompt))
	assert.Contains(t, text, "How can I help you?")
	assert.Contains(t, text, "Contact added.")
	assert.Contains(t, text, "Good bye!")
	assert.Equal(t, 1, strings.Count(text, "How can I help you?"), "lines after exit are not read")
	assert.Equal(t, 1, s.Contacts.Len())
}

func TestRun_EOFEndsLoop(t *testing.T) {
	c, _, out := newConsole(t, "hello\n")
	require.NoError(t, c.Run(context.Background()))
	assert.True(t, strings.HasSuffix(out.String(), Farewell+"\n"))
}

func TestRun_ErrorsDoNotStopLoop(t *testing.T) {
	c, s, out := newConsole(t, "bogus\nadd_phone Nobody 1234567890\nadd_contact Amy 1112223333\nexit\n")
	require.NoError(t, c.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, command.InvalidCommand)
	assert.Contains(t, text, `Error: contact "Nobody" not found`)
	assert.Equal(t, 1, s.Contacts.Len())
}

func TestRun_AutoSave(t *testing.T) {
	c, s, _ := newConsole(t, "add_contact John 1234567890\nphone John\nadd_note a b\nbogus\nexit\n", WithAutoSave(true))
	saves := 0
	s.Save = func() error { saves++; return nil }

	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, 2, saves, "only successful mutating commands autosave")
}

func TestRun_AutoSaveFailureIsShown(t *testing.T) {
	c, s, out := newConsole(t, "add_note a b\nexit\n", WithAutoSave(true))
	s.Save = func() error { return errors.New("read-only file system") }

	require.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), "Error: autosave failed: read-only file system")
}

func TestRun_NoticesPrintedBeforePrompt(t *testing.T) {
	notices := make(chan string, 1)
	notices <- "contacts.json was modified outside this session"
	c, _, out := newConsole(t, "exit\n", WithNotices(notices))

	require.NoError(t, c.Run(context.Background()))
	text := out.String()
	assert.Less(t, strings.Index(text, "modified outside"), strings.Index(text, Prompt))
}

func TestRun_ContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	d, err := command.NewDispatcher(nil)
	require.NoError(t, err)
	s := command.NewSession(book.NewAddressBook(), book.NewNotesBook())
	c := New(d, s, pr, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("console did not stop on cancel")
	}
}
