package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/webexlabs/webex-ai-bot/internal/biz/domain"
)

func domainUser(email string) domain.ApprovedUser {
	return domain.ApprovedUser{Email: email}
}

func testRouter(t *testing.T, llm *mockLLMRepo) (*CommandRouter, *memUserRepo) {
	t.Helper()
	users := newMemUserRepo("member@example.com")
	gate := testGate(t, users, "admin@example.com")
	return NewCommandRouter(gate, testResolver(t), llm), users
}

func TestCommandRouter_Ping(t *testing.T) {
	router, _ := testRouter(t, &mockLLMRepo{})

	reply, handled := router.TryHandle(context.Background(), inbound("room-1", "member@example.com", "ping"))
	if !handled {
		t.Fatal("Expected ping to be handled")
	}
	if reply != "pong" {
		t.Errorf("Expected pong, got %q", reply)
	}
}

func TestCommandRouter_CaseInsensitiveMatch(t *testing.T) {
	router, _ := testRouter(t, &mockLLMRepo{})

	reply, handled := router.TryHandle(context.Background(), inbound("room-1", "member@example.com", "  PiNg  "))
	if !handled || reply != "pong" {
		t.Errorf("Expected case-insensitive match, got handled=%v reply=%q", handled, reply)
	}
}

func TestCommandRouter_PrefixOfLongerWordIsNotACommand(t *testing.T) {
	router, _ := testRouter(t, &mockLLMRepo{})

	_, handled := router.TryHandle(context.Background(), inbound("room-1", "member@example.com", "helpme please"))
	if handled {
		t.Error("helpme must not match the help command")
	}
}

func TestCommandRouter_FreeTextFallsThrough(t *testing.T) {
	router, _ := testRouter(t, &mockLLMRepo{})

	_, handled := router.TryHandle(context.Background(), inbound("room-1", "member@example.com", "what is OSPF?"))
	if handled {
		t.Error("Free text must proceed to the LLM path")
	}
}

func TestCommandRouter_HelpShowsAdminSectionOnlyToAdmins(t *testing.T) {
	router, _ := testRouter(t, &mockLLMRepo{})

	memberHelp, handled := router.TryHandle(context.Background(), inbound("room-1", "member@example.com", "help"))
	if !handled {
		t.Fatal("Expected help to be handled")
	}
	if strings.Contains(memberHelp, "Admin commands:") {
		t.Error("Non-admin help must not list admin commands")
	}

	adminHelp, _ := router.TryHandle(context.Background(), inbound("room-1", "admin@example.com", "help"))
	if !strings.Contains(adminHelp, "Admin commands:") {
		t.Error("Admin help must list admin commands")
	}
}

func TestCommandRouter_AdminCommandFromNonAdminFallsThrough(t *testing.T) {
	router, _ := testRouter(t, &mockLLMRepo{})

	_, handled := router.TryHandle(context.Background(), inbound("room-1", "member@example.com", "add user new@example.com"))
	if handled {
		t.Error("An admin-only command from a non-admin must fall through silently")
	}
}

func TestCommandRouter_AddAndRemoveUser(t *testing.T) {
	router, _ := testRouter(t, &mockLLMRepo{})
	admin := "admin@example.com"

	reply, handled := router.TryHandle(context.Background(), inbound("room-1", admin, "add user new@example.com"))
	if !handled || reply != "User new@example.com has been approved." {
		t.Errorf("Unexpected add reply: handled=%v %q", handled, reply)
	}

	reply, _ = router.TryHandle(context.Background(), inbound("room-1", admin, "add user new@example.com"))
	if reply != "User new@example.com is already approved." {
		t.Errorf("Expected idempotent add notice, got %q", reply)
	}

	reply, _ = router.TryHandle(context.Background(), inbound("room-1", admin, "remove user new@example.com"))
	if reply != "User new@example.com has been removed." {
		t.Errorf("Unexpected remove reply: %q", reply)
	}

	reply, _ = router.TryHandle(context.Background(), inbound("room-1", admin, "remove user new@example.com"))
	if reply != "User new@example.com was not found in the approved list." {
		t.Errorf("Expected not-found notice, got %q", reply)
	}
}

func TestCommandRouter_AddUserUsage(t *testing.T) {
	router, _ := testRouter(t, &mockLLMRepo{})

	reply, handled := router.TryHandle(context.Background(), inbound("room-1", "admin@example.com", "add user"))
	if !handled || reply != "Usage: add user [email]" {
		t.Errorf("Expected usage notice, got handled=%v %q", handled, reply)
	}
}

func TestCommandRouter_ListUsers(t *testing.T) {
	router, _ := testRouter(t, &mockLLMRepo{})

	reply, _ := router.TryHandle(context.Background(), inbound("room-1", "admin@example.com", "list users"))
	if !strings.HasPrefix(reply, "Approved users:") {
		t.Errorf("Unexpected list header: %q", reply)
	}
	if !strings.Contains(reply, "member@example.com") {
		t.Errorf("Expected the approved member in the listing: %q", reply)
	}
}

func TestCommandRouter_HealthCheck(t *testing.T) {
	router, _ := testRouter(t, &mockLLMRepo{healthy: true})
	reply, _ := router.TryHandle(context.Background(), inbound("room-1", "member@example.com", "health check"))
	if reply != "AI service is healthy and responding." {
		t.Errorf("Unexpected healthy reply: %q", reply)
	}

	router, _ = testRouter(t, &mockLLMRepo{healthy: false})
	reply, _ = router.TryHandle(context.Background(), inbound("room-1", "member@example.com", "health check"))
	if reply != "AI service is not responding." {
		t.Errorf("Unexpected degraded reply: %q", reply)
	}
}

func TestCommandRouter_ListModels(t *testing.T) {
	// Cloud provider: nil model list
	router, _ := testRouter(t, &mockLLMRepo{})
	reply, _ := router.TryHandle(context.Background(), inbound("room-1", "member@example.com", "list models"))
	if !strings.Contains(reply, "only available for Ollama") {
		t.Errorf("Expected cloud-provider notice, got %q", reply)
	}

	// Local provider with models
	router, _ = testRouter(t, &mockLLMRepo{models: []string{"llama3", "mistral"}})
	reply, _ = router.TryHandle(context.Background(), inbound("room-1", "member@example.com", "list models"))
	if !strings.Contains(reply, "  - llama3") || !strings.Contains(reply, "  - mistral") {
		t.Errorf("Expected model listing, got %q", reply)
	}

	// Local provider with an empty tag list
	router, _ = testRouter(t, &mockLLMRepo{models: []string{}})
	reply, _ = router.TryHandle(context.Background(), inbound("room-1", "member@example.com", "list models"))
	if reply != "No models found." {
		t.Errorf("Expected empty-list notice, got %q", reply)
	}

	// Listing failure maps to the fallback, no internal detail leaks
	router, _ = testRouter(t, &mockLLMRepo{modelsErr: errors.New("tags endpoint down")})
	reply, _ = router.TryHandle(context.Background(), inbound("room-1", "member@example.com", "list models"))
	if reply != fallbackReply {
		t.Errorf("Expected the fallback reply, got %q", reply)
	}
}

func TestCommandRouter_UsePrompt(t *testing.T) {
	llm := &mockLLMRepo{reply: "expert answer"}
	router, _ := testRouter(t, llm)

	reply, handled := router.TryHandle(context.Background(),
		inbound("room-1", "member@example.com", "use prompt cisco-expert What is VLAN trunking?"))
	if !handled || reply != "expert answer" {
		t.Fatalf("Unexpected override reply: handled=%v %q", handled, reply)
	}

	reqs := llm.generateRequests()
	if len(reqs) != 1 {
		t.Fatalf("Expected one generate call, got %d", len(reqs))
	}
	if reqs[0].SystemPrompt != "cisco prompt" {
		t.Errorf("Expected the named personality's prompt, got %q", reqs[0].SystemPrompt)
	}
	if reqs[0].Text != "What is VLAN trunking?" {
		t.Errorf("Wrong question passed through: %q", reqs[0].Text)
	}
	if len(reqs[0].History) != 0 {
		t.Error("Overrides are one-shot and must not carry room history")
	}
}

func TestCommandRouter_UsePromptUnknownPersonality(t *testing.T) {
	llm := &mockLLMRepo{reply: "should not be called"}
	router, _ := testRouter(t, llm)

	reply, handled := router.TryHandle(context.Background(),
		inbound("room-1", "member@example.com", "use prompt nonsense What is VLAN trunking?"))
	if !handled {
		t.Fatal("Expected use prompt to be handled")
	}
	if !strings.Contains(reply, "Personality 'nonsense' not found") {
		t.Errorf("Expected not-found notice, got %q", reply)
	}
	if !strings.Contains(reply, "cisco-expert") || !strings.Contains(reply, "default") {
		t.Errorf("Expected the available keys in the notice, got %q", reply)
	}
	if len(llm.generateRequests()) != 0 {
		t.Error("Unknown personality must not invoke the LLM")
	}
}

func TestCommandRouter_UsePromptUsage(t *testing.T) {
	router, _ := testRouter(t, &mockLLMRepo{})

	reply, handled := router.TryHandle(context.Background(), inbound("room-1", "member@example.com", "use prompt cisco-expert"))
	if !handled || reply != "Usage: use prompt [name] [question]" {
		t.Errorf("Expected usage notice, got handled=%v %q", handled, reply)
	}
}

func TestCommandRouter_ReloadPrompts(t *testing.T) {
	router, _ := testRouter(t, &mockLLMRepo{})

	reply, handled := router.TryHandle(context.Background(), inbound("room-1", "admin@example.com", "reload prompts"))
	if !handled || reply != "Personalities reloaded from config." {
		t.Errorf("Unexpected reload reply: handled=%v %q", handled, reply)
	}
}

func TestCommandRouter_ReloadUsers(t *testing.T) {
	router, users := testRouter(t, &mockLLMRepo{})

	// A user added behind the gate's back appears after reload
	_ = users.Add(context.Background(), domainUser("late@example.com"))
	reply, _ := router.TryHandle(context.Background(), inbound("room-1", "admin@example.com", "reload users"))
	if reply != "Approved users reloaded from config." {
		t.Errorf("Unexpected reload reply: %q", reply)
	}

	listing, _ := router.TryHandle(context.Background(), inbound("room-1", "admin@example.com", "list users"))
	if !strings.Contains(listing, "late@example.com") {
		t.Errorf("Expected the reloaded user in the listing: %q", listing)
	}
}
