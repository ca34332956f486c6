package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Netcracker/qubership-site-readiness-service/view"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	log "github.com/sirupsen/logrus"
)

// ContentReviewClient asks a language model for a second opinion on page copy.
type ContentReviewClient interface {
	ReviewContent(ctx context.Context, input view.ContentReviewInput) (*view.ContentReview, error)
}

func NewOpenaiClient(apiKey string, model string, proxy string) (ContentReviewClient, error) {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	} else {
		return nil, errors.New("openai: api key is required")
	}

	if proxy != "" {
		opts = append(opts, option.WithBaseURL(proxy))
	}

	var openAIModel openai.ChatModel
	if model != "" {
		openAIModel = model
	} else {
		openAIModel = openai.ChatModelGPT5
	}

	cl := http.Client{Timeout: time.Second * 120}
	opts = append(opts, option.WithHTTPClient(&cl))

	return &OAIClientImpl{
		client: openai.NewClient(opts...),
		model:  openAIModel,
	}, nil
}

type OAIClientImpl struct {
	client openai.Client
	model  openai.ChatModel
}

var ContentReviewResponseSchema = GenerateSchema[view.ContentReview]()

const contentReviewPrompt = `You review a web page that is about to be submitted for display advertising approval.
Judge the supplied title, meta description and body excerpt for:
1. Originality and usefulness of the content for a human reader.
2. Signs of thin, scraped, auto-generated or placeholder text.
3. Content that typically violates advertising policies (adult, violent, illegal, deceptive).
4. Clarity of the page purpose.
Set verdict to ready, needs_work or not_ready. Keep the summary under 60 words and give at most
five short, concrete suggestions. Respond in json format. Avoid any other output.`

const maxExcerptRunes = 6000

func (l OAIClientImpl) ReviewContent(ctx context.Context, input view.ContentReviewInput) (*view.ContentReview, error) {
	start := time.Now()

	excerpt := []rune(input.BodyExcerpt)
	if len(excerpt) > maxExcerptRunes {
		excerpt = excerpt[:maxExcerptRunes]
	}
	page := fmt.Sprintf("url: %s\ntitle: %s\nmeta description: %s\nbody excerpt:\n%s",
		input.Url, input.Title, input.MetaDescription, string(excerpt))

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(contentReviewPrompt),
		openai.UserMessage(page),
	}

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:   "content_review_result",
		Schema: ContentReviewResponseSchema,
		Strict: openai.Bool(true),
	}

	log.Debugf("run content review with openai client for %s", input.Url)

	chat, err := l.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
		Model: l.model,
	})
	log.Debugf("finished content review with openai client, it took %dms", time.Since(start).Milliseconds())
	if err != nil {
		return nil, err
	}
	if len(chat.Choices) == 0 {
		return nil, errors.New("openai: empty completion")
	}

	var result view.ContentReview
	err = json.Unmarshal([]byte(chat.Choices[0].Message.Content), &result)
	if err != nil {
		return nil, fmt.Errorf("openai: malformed review: %w", err)
	}

	return &result, nil
}

func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return schema
}
