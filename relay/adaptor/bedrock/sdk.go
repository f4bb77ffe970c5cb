package bedrock

import (
	"context"
	"sync"

	"github.com/Laisky/errors/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/bedrockbridge/bedrock-bridge/common/config"
)

// SDKTransport calls the service directly through the AWS SDK.
type SDKTransport struct {
	client *bedrockruntime.Client
}

var _ Transport = (*SDKTransport)(nil)

// NewSDKTransport builds a client from static credentials when configured,
// falling back to the default credential chain (env, profile, instance role).
func NewSDKTransport(ctx context.Context) (*SDKTransport, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.Region),
	}
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	return &SDKTransport{client: bedrockruntime.NewFromConfig(awsCfg)}, nil
}

func (t *SDKTransport) SupportsInvoke() bool { return true }

func (t *SDKTransport) Converse(ctx context.Context, req *ConverseRequest) (*ConverseResponse, error) {
	out, err := t.client.Converse(ctx, toConverseInput(req))
	if err != nil {
		return nil, errors.Wrap(err, "Converse")
	}
	return fromConverseOutput(out), nil
}

func (t *SDKTransport) ConverseStream(ctx context.Context, req *ConverseRequest) (*StreamSource, error) {
	out, err := t.client.ConverseStream(ctx, toConverseStreamInput(req))
	if err != nil {
		return nil, errors.Wrap(err, "ConverseStream")
	}
	stream := out.GetStream()

	events := make(chan StreamEvent)
	go func() {
		defer close(events)
		for event := range stream.Events() {
			select {
			case events <- convertStreamEvent(event):
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	return &StreamSource{
		Events: events,
		err:    stream.Err,
		closeFn: func() (err error) {
			once.Do(func() { err = stream.Close() })
			return err
		},
	}, nil
}

func (t *SDKTransport) Invoke(ctx context.Context, modelID string, body []byte) ([]byte, error) {
	out, err := t.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, errors.Wrap(err, "InvokeModel")
	}
	return out.Body, nil
}

func (t *SDKTransport) InvokeStream(ctx context.Context, modelID string, body []byte) (*StreamSource, error) {
	out, err := t.client.InvokeModelWithResponseStream(ctx, &bedrockruntime.InvokeModelWithResponseStreamInput{
		ModelId:     aws.String(modelID),
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, errors.Wrap(err, "InvokeModelWithResponseStream")
	}
	stream := out.GetStream()

	chunks := make(chan []byte)
	go func() {
		defer close(chunks)
		for event := range stream.Events() {
			chunk, ok := event.(*types.ResponseStreamMemberChunk)
			if !ok || chunk.Value.Bytes == nil {
				continue
			}
			select {
			case chunks <- chunk.Value.Bytes:
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	return &StreamSource{
		Chunks: chunks,
		err:    stream.Err,
		closeFn: func() (err error) {
			once.Do(func() { err = stream.Close() })
			return err
		},
	}, nil
}

func toConverseInput(req *ConverseRequest) *bedrockruntime.ConverseInput {
	in := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(req.ModelID),
		Messages: toSDKMessages(req.Messages),
		System:   toSDKSystem(req.System),
	}
	in.InferenceConfig, in.AdditionalModelRequestFields = toSDKInference(req.InferenceConfig)
	return in
}

func toConverseStreamInput(req *ConverseRequest) *bedrockruntime.ConverseStreamInput {
	in := &bedrockruntime.ConverseStreamInput{
		ModelId:  aws.String(req.ModelID),
		Messages: toSDKMessages(req.Messages),
		System:   toSDKSystem(req.System),
	}
	in.InferenceConfig, in.AdditionalModelRequestFields = toSDKInference(req.InferenceConfig)
	return in
}

func toSDKMessages(messages []ConverseMessage) []types.Message {
	out := make([]types.Message, 0, len(messages))
	for _, msg := range messages {
		content := make([]types.ContentBlock, 0, len(msg.Content))
		for _, blk := range msg.Content {
			content = append(content, &types.ContentBlockMemberText{Value: blk.Text})
		}
		out = append(out, types.Message{
			Role:    types.ConversationRole(msg.Role),
			Content: content,
		})
	}
	return out
}

func toSDKSystem(system []ConverseText) []types.SystemContentBlock {
	if len(system) == 0 {
		return nil
	}
	out := make([]types.SystemContentBlock, 0, len(system))
	for _, blk := range system {
		out = append(out, &types.SystemContentBlockMemberText{Value: blk.Text})
	}
	return out
}

// toSDKInference maps the wire config onto the SDK input. The SDK keeps topK
// out of InferenceConfiguration, so it rides in the model-specific extra
// fields document instead.
func toSDKInference(cfg *InferenceConfig) (*types.InferenceConfiguration, document.Interface) {
	if cfg == nil {
		return nil, nil
	}
	out := &types.InferenceConfiguration{
		StopSequences: cfg.StopSequences,
	}
	if cfg.MaxTokens != nil {
		out.MaxTokens = aws.Int32(int32(*cfg.MaxTokens))
	}
	if cfg.Temperature != nil {
		out.Temperature = aws.Float32(float32(*cfg.Temperature))
	}
	if cfg.TopP != nil {
		out.TopP = aws.Float32(float32(*cfg.TopP))
	}
	var extra document.Interface
	if cfg.TopK != nil {
		extra = document.NewLazyDocument(map[string]any{"top_k": *cfg.TopK})
	}
	return out, extra
}

func fromConverseOutput(out *bedrockruntime.ConverseOutput) *ConverseResponse {
	resp := &ConverseResponse{
		StopReason: string(out.StopReason),
	}
	if msg, ok := out.Output.(*types.ConverseOutputMemberMessage); ok {
		resp.Output.Message.Role = string(msg.Value.Role)
		for _, blk := range msg.Value.Content {
			if text, ok := blk.(*types.ContentBlockMemberText); ok {
				resp.Output.Message.Content = append(resp.Output.Message.Content,
					ConverseText{Text: text.Value})
			}
		}
	}
	if out.Usage != nil {
		resp.Usage.InputTokens = int(aws.ToInt32(out.Usage.InputTokens))
		resp.Usage.OutputTokens = int(aws.ToInt32(out.Usage.OutputTokens))
		resp.Usage.TotalTokens = int(aws.ToInt32(out.Usage.TotalTokens))
	}
	return resp
}

// convertStreamEvent reduces an SDK stream union member to the generic
// single-key event the translator consumes.
func convertStreamEvent(event types.ConverseStreamOutput) StreamEvent {
	switch v := event.(type) {
	case *types.ConverseStreamOutputMemberMessageStart:
		return StreamEvent{Key: "messageStart", Payload: map[string]any{
			"role": string(v.Value.Role),
		}}
	case *types.ConverseStreamOutputMemberContentBlockStart:
		return StreamEvent{Key: "contentBlockStart", Payload: map[string]any{
			"contentBlockIndex": int(aws.ToInt32(v.Value.ContentBlockIndex)),
		}}
	case *types.ConverseStreamOutputMemberContentBlockDelta:
		payload := map[string]any{
			"contentBlockIndex": int(aws.ToInt32(v.Value.ContentBlockIndex)),
		}
		if delta, ok := v.Value.Delta.(*types.ContentBlockDeltaMemberText); ok {
			payload["delta"] = map[string]any{"text": delta.Value}
		}
		return StreamEvent{Key: "contentBlockDelta", Payload: payload}
	case *types.ConverseStreamOutputMemberContentBlockStop:
		return StreamEvent{Key: "contentBlockStop", Payload: map[string]any{
			"contentBlockIndex": int(aws.ToInt32(v.Value.ContentBlockIndex)),
		}}
	case *types.ConverseStreamOutputMemberMessageStop:
		return StreamEvent{Key: "messageStop", Payload: map[string]any{
			"stopReason": string(v.Value.StopReason),
		}}
	case *types.ConverseStreamOutputMemberMetadata:
		payload := map[string]any{}
		if v.Value.Usage != nil {
			payload["usage"] = map[string]any{
				"inputTokens":  int(aws.ToInt32(v.Value.Usage.InputTokens)),
				"outputTokens": int(aws.ToInt32(v.Value.Usage.OutputTokens)),
				"totalTokens":  int(aws.ToInt32(v.Value.Usage.TotalTokens)),
			}
		}
		if v.Value.Metrics != nil {
			payload["metrics"] = map[string]any{
				"latencyMs": aws.ToInt64(v.Value.Metrics.LatencyMs),
			}
		}
		return StreamEvent{Key: "metadata", Payload: payload}
	case *types.UnknownUnionMember:
		return StreamEvent{Key: v.Tag, Payload: map[string]any{}}
	default:
		return StreamEvent{Key: "unknown", Payload: map[string]any{}}
	}
}
