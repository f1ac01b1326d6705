package agents

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/showee/rag-api/internal/core"
	"github.com/showee/rag-api/internal/models"
	"github.com/showee/rag-api/internal/tts"
)

const (
	AgentTypeRAG        = "rag"
	AgentTypeSummarizer = "summarizer"
	AgentTypeChain      = "chain"
)

var ollamaModels = map[string]bool{
	"gpt-4o":      true,
	"gpt-4o-mini": true,
	"llama3.2":    true,
	"llama3.1":    true,
}

var geminiModels = map[string]bool{
	"gemini-1.5-flash": true,
	"gemini-1.5-pro":   true,
	"gemini-2.0-flash": true,
}

// ModelsForProvider returns the chat models the given provider can serve.
// Per-request model selection is validated against this set, so the names
// that reach LLMProvider.Generate are always ones the backend understands.
func ModelsForProvider(provider string) map[string]bool {
	if provider == "gemini" {
		return geminiModels
	}
	return ollamaModels
}

// ErrUnknownModel is returned when the requested model is outside the
// provider's supported set.
var ErrUnknownModel = errors.New("unknown model")

const contextualizePrompt = "Given a chat history and the latest user question " +
	"which might reference context in the chat history, formulate a standalone " +
	"question which can be understood without the chat history. Do NOT answer " +
	"the question, just reformulate it if needed and otherwise return it as is. " +
	"If you have links you should mention them."

const qaPrompt = "You are a helpful AI assistant. Use the following context to " +
	"answer the user's question. If the context is insufficient, answer from " +
	"your own knowledge without using it. If you have links you should mention them."

// AskInput is one inbound chat request.
type AskInput struct {
	Question  string
	SessionID string
	Model     string
	AgentType string
}

// AskResult is the generated turn. AudioFile is empty unless speech
// synthesis ran and succeeded.
type AskResult struct {
	Answer    string
	SessionID string
	Model     string
	AudioFile string
}

// ChatAgent runs the retrieval + generation pipeline and records every turn
// in the session log.
type ChatAgent struct {
	db       core.DbClient
	embedder core.EmbeddingProvider
	llm      core.LLMProvider
	speech   *tts.Client
	topK     int
	defModel string
	models   map[string]bool
}

func NewChatAgent(db core.DbClient, embedder core.EmbeddingProvider, llm core.LLMProvider, speech *tts.Client, topK int, defaultModel string, models map[string]bool) *ChatAgent {
	if topK <= 0 {
		topK = 2
	}
	if models == nil {
		models = ollamaModels
	}
	if defaultModel == "" {
		defaultModel = "llama3.2"
	}
	return &ChatAgent{db: db, embedder: embedder, llm: llm, speech: speech, topK: topK, defModel: defaultModel, models: models}
}

// Answer processes one chat turn. A missing session id gets a fresh uuid;
// the turn is appended to the log only after generation succeeded.
func (a *ChatAgent) Answer(ctx context.Context, input AskInput) (*AskResult, error) {
	model := input.Model
	if model == "" {
		model = a.defModel
	}
	if !a.models[model] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, model)
	}

	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	log.Printf("[ChatAgent] session=%s model=%s agent=%s", sessionID, model, input.AgentType)

	history, err := a.db.GetChatHistory(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	question := strings.TrimSpace(input.Question)

	switch input.AgentType {
	case "", AgentTypeRAG:
		answer, err := a.generate(ctx, model, history, question)
		if err != nil {
			return nil, err
		}
		if err := a.db.AppendLog(ctx, sessionID, question, answer, model); err != nil {
			return nil, fmt.Errorf("append log: %w", err)
		}
		return &AskResult{Answer: answer, SessionID: sessionID, Model: model}, nil

	case AgentTypeSummarizer:
		full, err := a.generate(ctx, model, history, question)
		if err != nil {
			return nil, err
		}
		summary, err := a.summarize(ctx, model, full)
		if err != nil {
			return nil, err
		}
		// The log keeps the full answer; the caller gets the summary.
		if err := a.db.AppendLog(ctx, sessionID, question, full, model); err != nil {
			return nil, fmt.Errorf("append log: %w", err)
		}
		audio := a.speak(ctx, summary)
		return &AskResult{Answer: summary, SessionID: sessionID, Model: model, AudioFile: audio}, nil

	case AgentTypeChain:
		// Fixed linear pipeline: preprocess -> answer -> summarize -> speak.
		refined, err := a.preprocess(ctx, model, question)
		if err != nil {
			return nil, err
		}
		full, err := a.generate(ctx, model, history, refined)
		if err != nil {
			return nil, err
		}
		summary, err := a.summarize(ctx, model, full)
		if err != nil {
			return nil, err
		}
		if err := a.db.AppendLog(ctx, sessionID, question, full, model); err != nil {
			return nil, fmt.Errorf("append log: %w", err)
		}
		audio := a.speak(ctx, summary)
		return &AskResult{Answer: summary, SessionID: sessionID, Model: model, AudioFile: audio}, nil

	default:
		return nil, fmt.Errorf("unknown agent type: %s", input.AgentType)
	}
}

// generate runs rewrite -> retrieve -> answer for one question.
func (a *ChatAgent) generate(ctx context.Context, model string, history []models.Message, question string) (string, error) {
	standalone, err := a.rewriteQuestion(ctx, model, history, question)
	if err != nil {
		return "", err
	}

	vecs, err := a.embedder.EmbedTexts(ctx, []string{standalone})
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) == 0 {
		return "", errors.New("embed query: embedder returned no vector")
	}

	chunks, err := a.db.SearchChunks(ctx, vecs[0], a.topK)
	if err != nil {
		return "", fmt.Errorf("search chunks: %w", err)
	}
	for i, ch := range chunks {
		preview := ch.Content
		if len(preview) > 100 {
			preview = preview[:100]
		}
		log.Printf("[ChatAgent] source %d (%s): %s...", i+1, ch.Source, preview)
	}

	prompt := buildQAPrompt(chunks, history, question)

	answer, err := a.llm.Generate(ctx, model, qaPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}

// rewriteQuestion reformulates a follow-up into a standalone question using
// prior turns. With no history the question passes through untouched.
func (a *ChatAgent) rewriteQuestion(ctx context.Context, model string, history []models.Message, question string) (string, error) {
	if len(history) == 0 {
		return question, nil
	}

	var b strings.Builder
	for _, m := range history {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}
	fmt.Fprintf(&b, "user: %s\n", question)

	standalone, err := a.llm.Generate(ctx, model, contextualizePrompt, b.String())
	if err != nil {
		return "", fmt.Errorf("rewrite question: %w", err)
	}
	standalone = strings.TrimSpace(standalone)
	if standalone == "" {
		return question, nil
	}
	return standalone, nil
}

func (a *ChatAgent) preprocess(ctx context.Context, model, question string) (string, error) {
	cleaned := strings.Join(strings.Fields(question), " ")
	refined, err := a.llm.Generate(ctx, model, "",
		"Format and refine the following search query, reply with the query only: "+cleaned)
	if err != nil {
		return "", fmt.Errorf("preprocess query: %w", err)
	}
	refined = strings.TrimSpace(refined)
	if refined == "" {
		return cleaned, nil
	}
	return refined, nil
}

func (a *ChatAgent) summarize(ctx context.Context, model, text string) (string, error) {
	summary, err := a.llm.Generate(ctx, model, "",
		"Summarize the following text in 3 sentences, reply with the summary only: "+text)
	if err != nil {
		return "", fmt.Errorf("summarize answer: %w", err)
	}
	return strings.TrimSpace(summary), nil
}

// speak is best effort; a missing or failing TTS endpoint yields "".
func (a *ChatAgent) speak(ctx context.Context, text string) string {
	if !a.speech.Enabled() {
		return ""
	}
	return a.speech.Synthesize(ctx, text)
}

func buildQAPrompt(chunks []models.Chunk, history []models.Message, question string) string {
	var b strings.Builder

	b.WriteString("Context:\n")
	for _, ch := range chunks {
		b.WriteString(ch.Content)
		b.WriteString("\n---\n")
	}

	if len(history) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, m := range history {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
	}

	fmt.Fprintf(&b, "\nQuestion: %s", question)
	return b.String()
}
