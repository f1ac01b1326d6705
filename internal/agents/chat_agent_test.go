package agents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/showee/rag-api/internal/models"
	"github.com/showee/rag-api/internal/tts"
)

func newTestChatAgent(store *fakeStore, llm *fakeLLM) *ChatAgent {
	return NewChatAgent(store, &fakeEmbedder{}, llm, tts.NewClient("", ""), 2, "llama3.2", nil)
}

func TestAnswerGeneratesSessionID(t *testing.T) {
	store := newFakeStore()
	agent := newTestChatAgent(store, &fakeLLM{})

	result, err := agent.Answer(context.Background(), AskInput{Question: "What is HTTPS?", Model: "llama3.2"})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if result.SessionID == "" {
		t.Fatal("expected a generated session id")
	}
	if result.Answer == "" {
		t.Fatal("expected a non-empty answer")
	}
	if result.Model != "llama3.2" {
		t.Errorf("model = %q", result.Model)
	}

	history, _ := store.GetChatHistory(context.Background(), result.SessionID)
	if len(history) != 2 {
		t.Fatalf("expected exactly one logged turn (2 messages), got %d", len(history))
	}
}

func TestAnswerDefaultsModel(t *testing.T) {
	store := newFakeStore()
	agent := newTestChatAgent(store, &fakeLLM{})

	result, err := agent.Answer(context.Background(), AskInput{Question: "hi"})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if result.Model != "llama3.2" {
		t.Errorf("expected default model llama3.2, got %q", result.Model)
	}
}

func TestAnswerRejectsUnknownModel(t *testing.T) {
	agent := newTestChatAgent(newFakeStore(), &fakeLLM{})

	_, err := agent.Answer(context.Background(), AskInput{Question: "hi", Model: "gpt-9"})
	if !errors.Is(err, ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
}

func TestAnswerGeminiModelSelection(t *testing.T) {
	store := newFakeStore()
	llm := &fakeLLM{}
	agent := NewChatAgent(store, &fakeEmbedder{}, llm, tts.NewClient("", ""), 2, "gemini-1.5-flash", ModelsForProvider("gemini"))

	// The provider's default passes validation and reaches the backend.
	result, err := agent.Answer(context.Background(), AskInput{Question: "hi"})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if result.Model != "gemini-1.5-flash" {
		t.Errorf("model = %q, want gemini-1.5-flash", result.Model)
	}
	if len(llm.models) != 1 || llm.models[0] != "gemini-1.5-flash" {
		t.Errorf("backend received models %v", llm.models)
	}

	// An explicit gemini model is accepted too.
	if _, err := agent.Answer(context.Background(), AskInput{Question: "hi", Model: "gemini-1.5-pro"}); err != nil {
		t.Fatalf("Answer with gemini-1.5-pro: %v", err)
	}

	// Ollama names never reach the gemini backend.
	if _, err := agent.Answer(context.Background(), AskInput{Question: "hi", Model: "llama3.2"}); !errors.Is(err, ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel for llama3.2 on gemini, got %v", err)
	}
}

func TestAnswerEmbedderReturnsNoVector(t *testing.T) {
	store := newFakeStore()
	agent := NewChatAgent(store, &fakeEmbedder{empty: true}, &fakeLLM{}, tts.NewClient("", ""), 2, "llama3.2", nil)

	_, err := agent.Answer(context.Background(), AskInput{Question: "hello"})
	if err == nil {
		t.Fatal("expected an error when the embedder returns no vector")
	}
	if !strings.Contains(err.Error(), "no vector") {
		t.Errorf("error should name the missing vector, got %q", err.Error())
	}
	if len(store.logs) != 0 {
		t.Fatal("failed turn must not be logged")
	}
}

func TestAnswerSkipsRewriteWithoutHistory(t *testing.T) {
	llm := &fakeLLM{}
	agent := newTestChatAgent(newFakeStore(), llm)

	if _, err := agent.Answer(context.Background(), AskInput{Question: "first question"}); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	// Only the answer generation call; no rewrite call for an empty history.
	if len(llm.calls) != 1 {
		t.Fatalf("expected 1 llm call, got %d", len(llm.calls))
	}
}

func TestAnswerRewritesFollowUp(t *testing.T) {
	store := newFakeStore()
	llm := &fakeLLM{responses: []string{"first answer", "standalone: what is TLS", "second answer"}}
	agent := newTestChatAgent(store, llm)

	first, err := agent.Answer(context.Background(), AskInput{Question: "What is HTTPS?"})
	if err != nil {
		t.Fatalf("first Answer: %v", err)
	}

	_, err = agent.Answer(context.Background(), AskInput{Question: "And what about it?", SessionID: first.SessionID})
	if err != nil {
		t.Fatalf("second Answer: %v", err)
	}

	// Second turn runs rewrite + answer on top of the first turn's answer call.
	if len(llm.calls) != 3 {
		t.Fatalf("expected 3 llm calls, got %d", len(llm.calls))
	}
	if !strings.Contains(llm.calls[1], "What is HTTPS?") {
		t.Error("rewrite prompt should include prior turns")
	}
	if !strings.Contains(llm.calls[2], "standalone: what is TLS") && !strings.Contains(llm.calls[2], "And what about it?") {
		t.Error("answer prompt should carry the question")
	}
}

func TestAnswerOrdersHistory(t *testing.T) {
	store := newFakeStore()
	llm := &fakeLLM{responses: []string{"answer one", "rewritten", "answer two"}}
	agent := newTestChatAgent(store, llm)

	first, err := agent.Answer(context.Background(), AskInput{Question: "turn one"})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if _, err := agent.Answer(context.Background(), AskInput{Question: "turn two", SessionID: first.SessionID}); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	history, _ := store.GetChatHistory(context.Background(), first.SessionID)
	want := []models.Message{
		{Role: "user", Content: "turn one"},
		{Role: "assistant", Content: "answer one"},
		{Role: "user", Content: "turn two"},
		{Role: "assistant", Content: "answer two"},
	}
	if len(history) != len(want) {
		t.Fatalf("history length = %d, want %d", len(history), len(want))
	}
	for i := range want {
		if history[i] != want[i] {
			t.Errorf("history[%d] = %+v, want %+v", i, history[i], want[i])
		}
	}
}

func TestAnswerRetrievedContextInPrompt(t *testing.T) {
	store := newFakeStore()
	store.searchResult = []models.Chunk{
		{Content: "HTTPS is HTTP over TLS.", Source: "upload"},
		{Content: "TLS encrypts the transport.", Source: "stackoverflow"},
	}
	llm := &fakeLLM{}
	agent := newTestChatAgent(store, llm)

	if _, err := agent.Answer(context.Background(), AskInput{Question: "What is HTTPS?"}); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	prompt := llm.calls[0]
	if !strings.Contains(prompt, "HTTPS is HTTP over TLS.") || !strings.Contains(prompt, "TLS encrypts the transport.") {
		t.Error("retrieved chunks missing from prompt")
	}
	if !strings.Contains(prompt, "What is HTTPS?") {
		t.Error("question missing from prompt")
	}
}

func TestAnswerGenerationFailurePropagatesAndLogsNothing(t *testing.T) {
	store := newFakeStore()
	agent := newTestChatAgent(store, &fakeLLM{err: errors.New("model offline")})

	_, err := agent.Answer(context.Background(), AskInput{Question: "hello"})
	if err == nil {
		t.Fatal("expected generation failure to propagate")
	}
	if len(store.logs) != 0 {
		t.Fatal("failed turn must not be logged")
	}
}

func TestSummarizerLogsFullAnswer(t *testing.T) {
	store := newFakeStore()
	llm := &fakeLLM{responses: []string{"the full detailed answer", "a short summary"}}
	agent := newTestChatAgent(store, llm)

	result, err := agent.Answer(context.Background(), AskInput{Question: "explain TLS", AgentType: AgentTypeSummarizer})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if result.Answer != "a short summary" {
		t.Errorf("caller should get the summary, got %q", result.Answer)
	}
	if len(store.logs) != 1 || store.logs[0].Answer != "the full detailed answer" {
		t.Error("log should keep the full answer")
	}
}

func TestChainRunsLinearPipeline(t *testing.T) {
	store := newFakeStore()
	llm := &fakeLLM{responses: []string{"refined query", "full answer", "summary answer"}}
	agent := newTestChatAgent(store, llm)

	result, err := agent.Answer(context.Background(), AskInput{Question: "  messy   query  ", AgentType: AgentTypeChain})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if len(llm.calls) != 3 {
		t.Fatalf("expected preprocess+answer+summarize = 3 calls, got %d", len(llm.calls))
	}
	if !strings.Contains(llm.calls[0], "messy query") {
		t.Error("preprocess prompt should carry the cleaned query")
	}
	if !strings.Contains(llm.calls[1], "refined query") {
		t.Error("answer step should use the refined query")
	}
	if result.Answer != "summary answer" {
		t.Errorf("result = %q", result.Answer)
	}
}

func TestAnswerRejectsUnknownAgentType(t *testing.T) {
	agent := newTestChatAgent(newFakeStore(), &fakeLLM{})

	if _, err := agent.Answer(context.Background(), AskInput{Question: "hi", AgentType: "oracle"}); err == nil {
		t.Fatal("expected error for unknown agent type")
	}
}
