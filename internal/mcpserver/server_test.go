package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/kith/internal/book"
	"github.com/starford/kith/internal/command"
	"github.com/starford/kith/internal/testutil"
)

func testServer(t *testing.T, autosave bool) (*Server, *command.Session) {
	t.Helper()
	d, err := command.NewDispatcher(nil)
	if err != nil {
		t.Fatal(err)
	}
	sess := command.NewSession(book.NewAddressBook(), book.NewNotesBook())
	return New(d, sess, autosave, nil), sess
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var spec command.Spec
	found := false
	for _, s := range exposed() {
		if s.Name == name {
			spec, found = s, true
		}
	}
	if !found {
		t.Fatalf("unknown tool: %s", name)
	}

	result, err := srv.toolHandler(spec)(context.Background(), req)
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestAddAndShowPhone(t *testing.T) {
	srv, sess := testServer(t, false)

	r := callTool(t, srv, "add_contact", map[string]interface{}{
		"args": `"John Doe" 1234567890`,
	})
	if r.IsError {
		t.Fatalf("add_contact failed: %s", resultText(r))
	}
	if text := resultText(r); text != "Contact added." {
		t.Errorf("add result = %q", text)
	}
	if sess.Contacts.Len() != 1 {
		t.Errorf("contacts = %d, want 1", sess.Contacts.Len())
	}

	r = callTool(t, srv, "phone", map[string]interface{}{"args": `"John Doe"`})
	if text := resultText(r); text != "John Doe: 1234567890" {
		t.Errorf("phone result = %q", text)
	}
}

func TestUpcomingBirthdaysUsesSessionClock(t *testing.T) {
	srv, sess := testServer(t, false)
	john := testutil.Contact(t, "John", "1234567890")
	if err := john.AddBirthday("03.06.1990"); err != nil {
		t.Fatal(err)
	}
	sess.Contacts = testutil.AddressBook(john)
	sess.Now = testutil.Clock(testutil.Today)

	r := callTool(t, srv, "upcoming_birthdays", map[string]interface{}{"args": "2"})
	if r.IsError || !strings.Contains(resultText(r), "John") {
		t.Errorf("upcoming = %q", resultText(r))
	}
	r = callTool(t, srv, "upcoming_birthdays", map[string]interface{}{"args": "1"})
	if !strings.Contains(resultText(r), "No birthdays in the next 1 days.") {
		t.Errorf("upcoming = %q", resultText(r))
	}
}

func TestToolWithoutArgs(t *testing.T) {
	srv, _ := testServer(t, false)
	r := callTool(t, srv, "hello", map[string]interface{}{})
	if r.IsError || resultText(r) != "How can I help you?" {
		t.Errorf("hello = %q (error=%v)", resultText(r), r.IsError)
	}
}

func TestToolErrorsAreResults(t *testing.T) {
	srv, _ := testServer(t, false)

	r := callTool(t, srv, "delete_note", map[string]interface{}{"args": "4"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
	if text := resultText(r); text != "Error: note 4 not found" {
		t.Errorf("error text = %q", text)
	}

	r = callTool(t, srv, "add_note", map[string]interface{}{})
	if !r.IsError || !strings.HasPrefix(resultText(r), "Usage: add_note") {
		t.Errorf("expected usage error, got %q", resultText(r))
	}
}

func TestAutoSave(t *testing.T) {
	srv, sess := testServer(t, true)
	saves := 0
	sess.Save = func() error { saves++; return nil }

	callTool(t, srv, "add_note", map[string]interface{}{"args": "Groceries milk"})
	callTool(t, srv, "all_notes", map[string]interface{}{})
	if saves != 1 {
		t.Errorf("saves = %d, want 1", saves)
	}

	sess.Save = func() error { return errors.New("disk full") }
	r := callTool(t, srv, "add_tag", map[string]interface{}{"args": "1 home"})
	if !r.IsError || !strings.Contains(resultText(r), "autosave failed: disk full") {
		t.Errorf("autosave failure not reported: %q", resultText(r))
	}
}

func TestExposedSkipsConsoleCommands(t *testing.T) {
	for _, s := range exposed() {
		if s.Command == command.Exit || s.Command == command.Help {
			t.Errorf("%s must not be a tool", s.Name)
		}
	}
	if len(exposed()) != len(command.Specs())-2 {
		t.Errorf("exposed = %d tools", len(exposed()))
	}
}

func TestToolsList(t *testing.T) {
	srv, _ := testServer(t, false)
	resp := srv.MCPServer().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"add_contact", "upcoming_birthdays", "remove_tag"} {
		if !strings.Contains(string(data), `"`+name+`"`) {
			t.Errorf("tools/list missing %s: %s", name, data)
		}
	}
}

func TestCommandsResource(t *testing.T) {
	srv, _ := testServer(t, false)
	contents, err := srv.readCommandsResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents).Text
	if !strings.Contains(text, "`edit_note`") || !strings.Contains(text, "DD.MM.YYYY") {
		t.Errorf("reference incomplete:\n%s", text)
	}
	if strings.Contains(text, "`exit`") {
		t.Error("reference lists console-only commands")
	}
}

func TestFlushWaitsForToolCall(t *testing.T) {
	srv, sess := testServer(t, true)
	entered := make(chan struct{})
	release := make(chan struct{})
	saves := 0
	sess.Save = func() error {
		saves++
		if saves == 1 {
			close(entered)
			<-release
		}
		return nil
	}

	var addNote command.Spec
	for _, s := range exposed() {
		if s.Command == command.AddNote {
			addNote = s
		}
	}
	called := make(chan *mcp.CallToolResult, 1)
	go func() { called <- srv.call(addNote, "Groceries milk") }()
	<-entered

	flushed := make(chan error, 1)
	go func() { flushed <- srv.Flush() }()
	select {
	case <-flushed:
		t.Fatal("Flush saved while a tool call was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	if r := <-called; r.IsError {
		t.Errorf("add_note failed: %s", resultText(r))
	}
	if err := <-flushed; err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if saves != 2 {
		t.Errorf("saves = %d, want 2", saves)
	}
}

func TestFlushWithoutPersistence(t *testing.T) {
	srv, _ := testServer(t, false)
	if err := srv.Flush(); err != nil {
		t.Errorf("Flush: %v", err)
	}
}
