package jobs

import (
	"context"
	"strings"
	"testing"
)

func TestDraftDocumentInputValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		kind    string
		resume  string
		jobDesc string
		lead    string
	}{
		{"cover letter without resume", DraftCoverLetter, "", "some job", ""},
		{"cover letter without job", DraftCoverLetter, "some resume", "", ""},
		{"outreach without lead context", DraftOutreachEmail, "some resume", "", ""},
		{"ats report without job", DraftATSReport, "some resume", "", ""},
		{"unknown kind", "haiku", "resume", "job", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DraftDocument(ctx, tt.kind, tt.resume, tt.jobDesc, tt.lead, ""); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestATSReportDeterministic(t *testing.T) {
	resume := "Go engineer with Kubernetes and PostgreSQL experience"
	job := "Looking for a Go engineer. Kubernetes required, Terraform a plus."

	a := ATSReport(resume, job)
	b := ATSReport(resume, job)
	if a != b {
		t.Fatal("report not deterministic")
	}

	if !strings.Contains(a, "kubernetes") {
		t.Errorf("matching keyword missing from report:\n%s", a)
	}
	if !strings.Contains(a, "terraform") {
		t.Errorf("gap keyword missing from report:\n%s", a)
	}
	if !strings.Contains(a, "ATS keyword overlap:") {
		t.Errorf("score line missing:\n%s", a)
	}
}

func TestATSReportViaDraftDocument(t *testing.T) {
	// ats_report is deterministic and must work with no LLM configured.
	res, err := DraftDocument(context.Background(), DraftATSReport,
		"Python developer, Django and Redis", "Need a Django developer with Celery", "", "")
	if err != nil {
		t.Fatalf("DraftDocument() error = %v", err)
	}
	if !res.Success || res.Text == "" {
		t.Error("expected a rendered report")
	}
}

func TestTopJobKeywords(t *testing.T) {
	job := "kubernetes kubernetes kubernetes terraform terraform ansible"
	got := TopJobKeywords(job, 2)
	if len(got) != 2 {
		t.Fatalf("got %v, want 2 keywords", got)
	}
	if got[0] != "kubernetes" || got[1] != "terraform" {
		t.Errorf("got %v, want frequency order [kubernetes terraform]", got)
	}

	a := TopJobKeywords(job, 3)
	b := TopJobKeywords(job, 3)
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("keyword order not deterministic")
		}
	}
}
