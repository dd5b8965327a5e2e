package telegramtmpl

import "testing"

func TestBuildDigestHintsEmptyHistory(t *testing.T) {
	hints := BuildDigestHints(DigestAdviceInput{NetResult: "0.00", Risk: "MEDIUM"})
	if len(hints) != 1 || hints[0] != "Start a first simulation to build a track record." {
		t.Fatalf("unexpected hints: %v", hints)
	}
}

func TestBuildDigestHintsCapped(t *testing.T) {
	hints := BuildDigestHints(DigestAdviceInput{
		Total:      5,
		Concluded:  0,
		InProgress: 5,
		NetResult:  "-10.50",
		Risk:       "high",
	})
	if len(hints) != 3 {
		t.Fatalf("expected 3 hints, got %d: %v", len(hints), hints)
	}
}

func TestBuildDigestHintsHealthy(t *testing.T) {
	hints := BuildDigestHints(DigestAdviceInput{Total: 10, Concluded: 8, InProgress: 2, NetResult: "350.00", Risk: "LOW"})
	if len(hints) != 0 {
		t.Fatalf("expected no hints, got %v", hints)
	}
}
