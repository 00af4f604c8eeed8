// Package chat implements the conversational assistant: an OpenAI-compatible
// chat loop with a JSON function-call protocol backed by live market data.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"
)

const systemPromptTemplate = `You are a helpful financial assistant specializing in Turkish stock market analysis (BIST).

You have access to real-time stock data for the following Turkish stocks:
%s

When users ask about stocks, you can call these functions:
%s

To call a function, respond with a JSON block like this:
` + "```json" + `
{"function": "function_name", "parameters": {"param1": "value1"}}
` + "```" + `

After receiving function results, provide a clear, helpful analysis.
Always be informative but remind users that this is not financial advice.`

// Config configures the assistant.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Tickers []string
}

// Assistant answers portfolio questions, calling market-data functions
// when the model asks for them.
type Assistant struct {
	client       oa.Client
	model        string
	systemPrompt string
	functions    *Functions
	store        *Store
	log          zerolog.Logger
}

// NewAssistant creates the assistant. The returned instance is safe for
// concurrent use; per-session state lives in the store.
func NewAssistant(cfg Config, functions *Functions, store *Store, logger zerolog.Logger) *Assistant {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	specs, _ := json.MarshalIndent(functions.Specs(), "", "  ")
	prompt := fmt.Sprintf(systemPromptTemplate,
		"- "+strings.Join(cfg.Tickers, "\n- "),
		string(specs))

	return &Assistant{
		client:       oa.NewClient(opts...),
		model:        model,
		systemPrompt: prompt,
		functions:    functions,
		store:        store,
		log:          logger.With().Str("component", "chat").Logger(),
	}
}

// functionCall is the JSON shape the model emits to request data.
type functionCall struct {
	Function   string                 `json:"function"`
	Parameters map[string]interface{} `json:"parameters"`
}

var (
	reJSONBlock  = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	reInlineCall = regexp.MustCompile(`\{[^{}]*"function"[^{}]*\}`)
)

// extractFunctionCall finds a function-call request in a model response.
// Fenced json blocks are preferred; bare inline objects are a fallback
// for models that skip the fence.
func extractFunctionCall(response string) *functionCall {
	for _, m := range reJSONBlock.FindAllStringSubmatch(response, -1) {
		var call functionCall
		if err := json.Unmarshal([]byte(m[1]), &call); err == nil && call.Function != "" {
			return &call
		}
	}
	for _, m := range reInlineCall.FindAllString(response, -1) {
		var call functionCall
		if err := json.Unmarshal([]byte(m), &call); err == nil && call.Function != "" {
			return &call
		}
	}
	return nil
}

// Chat sends a user message within a session and returns the assistant's
// reply. When the model requests a function, the result is fed back and
// the model's follow-up analysis is returned.
func (a *Assistant) Chat(ctx context.Context, sessionID, userMessage string) (string, error) {
	if err := a.store.Append(ctx, sessionID, Message{Role: "user", Content: userMessage}); err != nil {
		return "", err
	}

	reply, err := a.complete(ctx, sessionID)
	if err != nil {
		return "", err
	}

	call := extractFunctionCall(reply)
	if call == nil {
		if err := a.store.Append(ctx, sessionID, Message{Role: "assistant", Content: reply}); err != nil {
			return "", err
		}
		return reply, nil
	}

	a.log.Debug().Str("function", call.Function).Str("session", sessionID).Msg("executing model function call")
	result := a.functions.Execute(ctx, call.Function, call.Parameters)
	resultJSON, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		resultJSON = []byte(fmt.Sprintf(`{"error": %q}`, err.Error()))
	}

	if err := a.store.Append(ctx, sessionID, Message{Role: "assistant", Content: reply}); err != nil {
		return "", err
	}
	followUp := fmt.Sprintf("Function result:\n```json\n%s\n```\nPlease analyze this data and provide a helpful response.", resultJSON)
	if err := a.store.Append(ctx, sessionID, Message{Role: "user", Content: followUp}); err != nil {
		return "", err
	}

	final, err := a.complete(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if err := a.store.Append(ctx, sessionID, Message{Role: "assistant", Content: final}); err != nil {
		return "", err
	}
	return final, nil
}

// ClearHistory drops a session's conversation history.
func (a *Assistant) ClearHistory(ctx context.Context, sessionID string) error {
	return a.store.Clear(ctx, sessionID)
}

// complete runs one completion over the session's stored history.
func (a *Assistant) complete(ctx context.Context, sessionID string) (string, error) {
	history, err := a.store.History(ctx, sessionID)
	if err != nil {
		return "", err
	}

	messages := make([]oa.ChatCompletionMessageParamUnion, 0, len(history)+1)
	messages = append(messages, oa.SystemMessage(a.systemPrompt))
	for _, m := range history {
		switch m.Role {
		case "assistant":
			messages = append(messages, oa.AssistantMessage(m.Content))
		default:
			messages = append(messages, oa.UserMessage(m.Content))
		}
	}

	resp, err := a.client.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model:    a.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
