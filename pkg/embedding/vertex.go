package embedding

import (
	"context"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"
)

// DefaultVertexModel is the text embedding model used when none is configured.
const DefaultVertexModel = "text-embedding-004"

// VertexProvider generates embeddings through a Vertex AI publisher model
// using the regional prediction endpoint.
type VertexProvider struct {
	client   *aiplatform.PredictionClient
	endpoint string
}

// NewVertexProvider creates a provider bound to a publisher model in the
// given project and location. Credentials come from Application Default
// Credentials.
func NewVertexProvider(ctx context.Context, project, location, model string, opts ...option.ClientOption) (*VertexProvider, error) {
	if model == "" {
		model = DefaultVertexModel
	}
	opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", location)))
	client, err := aiplatform.NewPredictionClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating prediction client: %w", err)
	}
	return &VertexProvider{
		client: client,
		endpoint: fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s",
			project, location, model),
	}, nil
}

// EmbedBatch implements Provider.
func (p *VertexProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	instances := make([]*structpb.Value, 0, len(texts))
	for _, text := range texts {
		inst, err := structpb.NewStruct(map[string]any{"content": text})
		if err != nil {
			return nil, fmt.Errorf("building instance: %w", err)
		}
		instances = append(instances, structpb.NewStructValue(inst))
	}

	resp, err := p.client.Predict(ctx, &aiplatformpb.PredictRequest{
		Endpoint:  p.endpoint,
		Instances: instances,
	})
	if err != nil {
		return nil, fmt.Errorf("vertex predict: %w", err)
	}
	if len(resp.Predictions) != len(texts) {
		return nil, fmt.Errorf("vertex returned %d predictions for %d texts", len(resp.Predictions), len(texts))
	}

	out := make([][]float32, 0, len(resp.Predictions))
	for _, pred := range resp.Predictions {
		values := pred.GetStructValue().GetFields()["embeddings"].
			GetStructValue().GetFields()["values"].GetListValue().GetValues()
		if len(values) == 0 {
			return nil, fmt.Errorf("vertex prediction carries no embedding values")
		}
		vec := make([]float32, len(values))
		for i, v := range values {
			vec[i] = float32(v.GetNumberValue())
		}
		out = append(out, vec)
	}
	return out, nil
}

// Close implements Provider.
func (p *VertexProvider) Close() error {
	return p.client.Close()
}
