package advisor

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/glebmarkov/nis2-dashboard/internal/config"
	"github.com/glebmarkov/nis2-dashboard/internal/models"
)

const systemPrompt = "You are a web security and NIS2 compliance consultant. " +
	"Give short, practical recommendations in plain language."

// OpenAI — реализация советника поверх API чат-комплишенов.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI создаёт клиента OpenAI по конфигурации.
func NewOpenAI(cfg config.Advisor) (*OpenAI, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("advisor.NewOpenAI: openai_key is not set")
	}
	return &OpenAI{
		client: openai.NewClient(cfg.OpenAIKey),
		model:  cfg.OpenAIModel,
	}, nil
}

// SecurityAdvice формирует рекомендации по результатам сканирования.
func (o *OpenAI) SecurityAdvice(ctx context.Context, results models.ScanResults) (string, error) {
	const op = "advisor.SecurityAdvice"
	payload, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	prompt := fmt.Sprintf(
		"A website security scan produced the following results:\n%s\n"+
			"Suggest up to five prioritized improvements.", payload)
	return o.complete(ctx, op, prompt)
}

// ComplianceAdvice формирует рекомендации по ответам NIS2-анкеты.
func (o *OpenAI) ComplianceAdvice(ctx context.Context, answers []models.Answer) (string, error) {
	const op = "advisor.ComplianceAdvice"
	payload, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	prompt := fmt.Sprintf(
		"A company answered a NIS2 self-assessment as follows:\n%s\n"+
			"Suggest concrete next steps towards compliance.", payload)
	return o.complete(ctx, op, prompt)
}

// Ask отвечает на произвольный вопрос пользователя.
func (o *OpenAI) Ask(ctx context.Context, question, questionContext string) (string, error) {
	const op = "advisor.Ask"
	prompt := question
	if questionContext != "" {
		prompt = fmt.Sprintf("Context: %s\n\nQuestion: %s", questionContext, question)
	}
	return o.complete(ctx, op, prompt)
}

func (o *OpenAI) complete(ctx context.Context, op, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices returned", op)
	}
	return resp.Choices[0].Message.Content, nil
}
