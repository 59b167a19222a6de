package llm

import (
	"context"
	"strings"
	"testing"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantName string
		wantErr  bool
	}{
		{"openai", Config{Provider: "openai", APIKey: "sk-test"}, "openai", false},
		{"openai missing key", Config{Provider: "openai"}, "", true},
		{"anthropic", Config{Provider: "anthropic", APIKey: "sk-ant-test"}, "anthropic", false},
		{"claude alias", Config{Provider: "claude", APIKey: "sk-ant-test"}, "anthropic", false},
		{"ollama", Config{Provider: "ollama"}, "ollama", false},
		{"dryrun", Config{Provider: "dryrun"}, "dryrun", false},
		{"empty", Config{}, "", true},
		{"unknown", Config{Provider: "chatbot9000"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if provider.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", provider.Name(), tt.wantName)
			}
		})
	}
}

func TestDryRunProvider_CannedAnswers(t *testing.T) {
	provider := NewDryRunProvider(map[string]string{
		"capital of Valdoria": "Zentrix",
		"founded":             "1887",
	})

	resp, err := provider.Generate(context.Background(), GenerateRequest{
		Prompt: "Question: What is the capital of Valdoria?\nAnswer:",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if resp.Text != "Zentrix" {
		t.Errorf("Text = %q, want Zentrix", resp.Text)
	}

	resp, err = provider.Generate(context.Background(), GenerateRequest{
		Prompt: "Question: When was the academy established?\nAnswer:",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(resp.Text, "dry-run") {
		t.Errorf("unmatched prompt should get the placeholder, got %q", resp.Text)
	}
}
