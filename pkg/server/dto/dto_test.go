package dto

import (
	"strings"
	"testing"
)

func TestEmbedRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"valid", "hello", false},
		{"empty", "", true},
		{"whitespace only", "   \t\n", true},
		{"too long", strings.Repeat("x", MaxTextLength+1), true},
		{"at limit", strings.Repeat("x", MaxTextLength), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := EmbedRequest{Text: tt.text}
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEmbedBatchRequestValidate(t *testing.T) {
	r := EmbedBatchRequest{}
	if err := r.Validate(); err == nil {
		t.Error("expected error for empty texts")
	}

	r = EmbedBatchRequest{Texts: []string{"ok", strings.Repeat("x", MaxTextLength+1)}}
	if err := r.Validate(); err != ErrTextTooLong {
		t.Errorf("expected ErrTextTooLong, got %v", err)
	}

	r = EmbedBatchRequest{Texts: []string{"a", "b"}}
	if err := r.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
