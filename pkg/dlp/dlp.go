// Package dlp wraps the Data Loss Prevention API with info type listing,
// text inspection, and character masking.
package dlp

import (
	"context"
	"fmt"

	dlp "cloud.google.com/go/dlp/apiv2"
	"cloud.google.com/go/dlp/apiv2/dlppb"
)

// Client wraps a DLP client bound to one project.
type Client struct {
	c      *dlp.Client
	parent string
}

// InfoType describes one detector the API supports.
type InfoType struct {
	Name        string
	DisplayName string
	Description string
}

// Finding is one match reported by an inspection.
type Finding struct {
	Quote      string
	InfoType   string
	Likelihood string
}

// New creates a DLP client using Application Default Credentials.
func New(ctx context.Context, projectID string) (*Client, error) {
	c, err := dlp.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating dlp client: %w", err)
	}
	return &Client{
		c:      c,
		parent: fmt.Sprintf("projects/%s/locations/global", projectID),
	}, nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.c.Close()
}

// InfoTypes lists the detectors the API supports, optionally filtered by a
// BCP-47 language code.
func (c *Client) InfoTypes(ctx context.Context, languageCode string) ([]InfoType, error) {
	resp, err := c.c.ListInfoTypes(ctx, &dlppb.ListInfoTypesRequest{
		LanguageCode: languageCode,
	})
	if err != nil {
		return nil, fmt.Errorf("listing info types: %w", err)
	}
	out := make([]InfoType, 0, len(resp.InfoTypes))
	for _, it := range resp.InfoTypes {
		out = append(out, InfoType{
			Name:        it.Name,
			DisplayName: it.DisplayName,
			Description: it.Description,
		})
	}
	return out, nil
}

// Inspect scans text for the named info types and returns the findings with
// quotes included.
func (c *Client) Inspect(ctx context.Context, text string, infoTypes []string) ([]Finding, error) {
	resp, err := c.c.InspectContent(ctx, &dlppb.InspectContentRequest{
		Parent:        c.parent,
		InspectConfig: inspectConfig(infoTypes),
		Item:          contentItem(text),
	})
	if err != nil {
		return nil, fmt.Errorf("inspecting content: %w", err)
	}

	var out []Finding
	for _, f := range resp.GetResult().GetFindings() {
		out = append(out, Finding{
			Quote:      f.Quote,
			InfoType:   f.GetInfoType().GetName(),
			Likelihood: f.Likelihood.String(),
		})
	}
	return out, nil
}

// Mask replaces every match of the named info types in text with '*'.
func (c *Client) Mask(ctx context.Context, text string, infoTypes []string) (string, error) {
	resp, err := c.c.DeidentifyContent(ctx, &dlppb.DeidentifyContentRequest{
		Parent:        c.parent,
		InspectConfig: inspectConfig(infoTypes),
		Item:          contentItem(text),
		DeidentifyConfig: &dlppb.DeidentifyConfig{
			Transformation: &dlppb.DeidentifyConfig_InfoTypeTransformations{
				InfoTypeTransformations: &dlppb.InfoTypeTransformations{
					Transformations: []*dlppb.InfoTypeTransformations_InfoTypeTransformation{{
						PrimitiveTransformation: &dlppb.PrimitiveTransformation{
							Transformation: &dlppb.PrimitiveTransformation_CharacterMaskConfig{
								CharacterMaskConfig: &dlppb.CharacterMaskConfig{
									MaskingCharacter: "*",
								},
							},
						},
					}},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("deidentifying content: %w", err)
	}
	return resp.GetItem().GetValue(), nil
}

func inspectConfig(infoTypes []string) *dlppb.InspectConfig {
	its := make([]*dlppb.InfoType, 0, len(infoTypes))
	for _, name := range infoTypes {
		its = append(its, &dlppb.InfoType{Name: name})
	}
	return &dlppb.InspectConfig{
		InfoTypes:    its,
		IncludeQuote: true,
	}
}

func contentItem(text string) *dlppb.ContentItem {
	return &dlppb.ContentItem{
		DataItem: &dlppb.ContentItem_Value{Value: text},
	}
}
