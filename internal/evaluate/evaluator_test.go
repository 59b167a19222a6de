package evaluate

import "testing"

func TestEvaluator_Check(t *testing.T) {
	tests := []struct {
		name     string
		response string
		gold     string
		want     bool
	}{
		{"exact match", "Zentrix", "Zentrix", true},
		{"wrong answer", "Eastbridge", "Zentrix", false},
		{"hard distractor confusion", "Northgate", "Zentrix", false},
		{"embedded in sentence", "The capital is Zentrix.", "Zentrix", true},
		{"filler prefix", "The answer is Zentrix", "Zentrix", true},
		{"answer label", "Answer: Zentrix", "Zentrix", true},
		{"document filler prefix", "According to the documents, Zentrix", "Zentrix", true},
		{"bare determiner never stripped", "The Hague", "The Hague", true},
		{"multi-word name", "Maria Thornberg", "Maria Thornberg", true},
		{"name in sentence", "The CEO is Maria Thornberg since 2023.", "Maria Thornberg", true},
		{"reordered tokens", "Thornberg, Maria", "Maria Thornberg", true},
		{"plain year", "1887", "1887", true},
		{"year in sentence", "It was founded in 1887.", "1887", true},
		{"year with explanation tail", "It was founded in 1887. This is supported by Document 3.", "1887", true},
		{"acknowledgment before answer", "Yes. The answer is Zentrix.", "Zentrix", true},
		{"leading clause without the answer", "Certainly. The capital is Zentrix.", "Zentrix", true},
		{"acknowledgment with wrong answer", "Yes. It is Eastbridge.", "Zentrix", false},
		{"multi-word with extra detail", "rare earth minerals, particularly lithium", "rare earth minerals", true},
		{"number with unit", "2.4 million residents", "2.4 million", true},
		{"thousands separator", "The population is 1,342", "1342", true},
		{"abbreviation shares number", "COX-3", "cyclooxygenase-3", true},
		{"explicit contradiction despite gold echo", "1887 was wrong, the real answer is 1342", "1887", false},
		{"correction phrasing", "Correction: Eastbridge", "Zentrix", false},
		{"explicit different answer", "The answer is Eastbridge", "Zentrix", false},
		{"numeric density guard", "2.4 in 1990 but later grew to 5 million", "2.4 million", false},
		{"empty response", "", "Zentrix", false},
		{"whitespace response", "   ", "Zentrix", false},
		{"refusal", "I don't know", "Zentrix", false},
	}

	e := NewEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fragment := e.Check(tt.response, tt.gold)
			if got != tt.want {
				t.Errorf("Check(%q, %q) = %v, want %v", tt.response, tt.gold, got, tt.want)
			}
			if !got && fragment != "" {
				t.Errorf("incorrect result carried non-empty fragment %q", fragment)
			}
			if got && fragment == "" {
				t.Errorf("correct result carried empty fragment")
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Zentrix.", "zentrix"},
		{"The  Hague", "the hague"},
		{"2.4 million!", "2.4 million"},
		{"cyclooxygenase-3 (COX-3)", "cyclooxygenase-3 cox-3"},
		{"  spaced   out  ", "spaced out"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractAnswer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The answer is Zentrix.", "Zentrix"},
		{"Answer: 1887", "1887"},
		{"Based on the documents, the answer is Zentrix", "Zentrix"},
		{"Zentrix. It is mentioned in Document 5.", "Zentrix"},
		{"The Hague", "The Hague"}, // bare "the" is not a filler prefix
		{"plain answer", "plain answer"},
	}
	for _, tt := range tests {
		if got := ExtractAnswer(tt.in); got != tt.want {
			t.Errorf("ExtractAnswer(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
