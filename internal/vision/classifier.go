package vision

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Classification is the result of classifying a product image.
type Classification struct {
	// Category is the inferred product category, e.g. "sneakers".
	Category string
	// Description is the model's full description of the product.
	Description string
}

// Classifier infers a product category from an image. Failures are expected
// (missing key, network trouble); the calling stage falls back to manual
// category input.
type Classifier interface {
	Classify(ctx context.Context, imageBase64 string) (*Classification, error)
}

// OpenAIClassifier implements Classifier with an OpenAI multimodal model.
type OpenAIClassifier struct {
	client *openai.Client
	model  string
}

// NewOpenAIClassifier creates a classifier using the given vision-capable
// model (e.g. "gpt-4o-mini").
func NewOpenAIClassifier(apiKey string, model string) *OpenAIClassifier {
	return &OpenAIClassifier{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIClassifier) Classify(ctx context.Context, imageBase64 string) (*Classification, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: 300,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Describe this product and infer its category (like sneakers, electronics).",
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: "data:image/jpeg;base64," + imageBase64,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vision request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("vision returned no choices")
	}

	description := resp.Choices[0].Message.Content
	category := CategoryFromDescription(description)
	if category == "" {
		category = "product"
	}

	return &Classification{Category: category, Description: description}, nil
}

// categoryKeywords maps product categories to indicative description terms,
// checked in order so the result is deterministic.
var categoryKeywords = []struct {
	category string
	terms    []string
}{
	{"sneakers", []string{"shoe", "sneaker", "trainer"}},
	{"clothes", []string{"shirt", "t-shirt", "jeans", "jacket"}},
	{"electronics", []string{"laptop", "phone", "camera", "headphones", "airpods", "earbuds"}},
	{"food", []string{"burger", "pizza", "cake", "snack"}},
	{"books", []string{"book", "novel", "paperback"}},
}

// CategoryFromDescription scans a description for known product keywords
// and returns the first matching category, or "" when nothing matches.
func CategoryFromDescription(description string) string {
	description = strings.ToLower(description)
	for _, ck := range categoryKeywords {
		for _, term := range ck.terms {
			if strings.Contains(description, term) {
				return ck.category
			}
		}
	}
	return ""
}
