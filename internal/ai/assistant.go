package ai

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/stackit-dev/stackit/backend/internal/apperror"
)

const markdownPrompt = `You are a Markdown formatter for a technical Q&A platform.

Your task is to take a user's plain-text question or post and format it using clean, structured GitHub-Flavored Markdown.

Format Rules:
- Use a title heading (#) if the post includes a clear title
- Use subheadings (##) for sections like "Problem", "What I tried", "Expected behavior", "Code", etc.
- Use **bold** and _italic_ to emphasize important phrases
- Use fenced code blocks for code snippets, with a language identifier when possible
- Use bullet points or numbered lists where needed
- Do not explain your formatting; return only the final markdown output

Respond with only the formatted Markdown.`

const tagsPrompt = `Extract relevant tags from the input text.

Rules:
- Output a JSON array of lowercase string tags like ["react", "api", "typescript"]
- Return only the array, nothing else.`

// Assistant wraps a Generator with the forum's fixed prompts.
type Assistant struct {
	gen     Generator
	timeout time.Duration
}

// NewAssistant returns an Assistant. A nil generator means AI is switched off.
func NewAssistant(gen Generator, timeout time.Duration) *Assistant {
	return &Assistant{gen: gen, timeout: timeout}
}

func (a *Assistant) Markdown(ctx context.Context, text string) (string, error) {
	return a.run(ctx, markdownPrompt, text)
}

// Tags asks the model for tags. Output that is not a JSON string array yields an empty list.
func (a *Assistant) Tags(ctx context.Context, text string) ([]string, error) {
	raw, err := a.run(ctx, tagsPrompt, text)
	if err != nil {
		return nil, err
	}
	return ParseTags(raw), nil
}

func (a *Assistant) run(ctx context.Context, prompt, input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", apperror.NewValidation("Missing input text.", nil)
	}
	if a.gen == nil {
		return "", apperror.NewUnavailable("AI assistant is not configured")
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	out, err := a.gen.Generate(ctx, prompt+"\n\nINPUT:\n"+input)
	if err != nil {
		return "", apperror.NewExternal("AI service request failed", err)
	}
	return out, nil
}

var quoteReplacer = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'")

// ParseTags decodes a JSON array of strings from model output. Code fences and
// text around the array are tolerated; anything else returns an empty slice.
func ParseTags(raw string) []string {
	cleaned := strings.TrimSpace(quoteReplacer.Replace(raw))
	cleaned = stripFence(cleaned)

	var decoded []string
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		start := strings.Index(cleaned, "[")
		end := strings.LastIndex(cleaned, "]")
		if start == -1 || end <= start {
			return []string{}
		}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &decoded); err != nil {
			return []string{}
		}
	}

	seen := make(map[string]struct{}, len(decoded))
	tags := make([]string, 0, len(decoded))
	for _, t := range decoded {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.Index(s, "\n"); nl != -1 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
