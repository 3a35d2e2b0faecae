package checkout

import (
	"testing"

	"github.com/fitcore-app/fitcore-backend/pkg/enums"
	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
)

func TestNextStepTwoStepFlow(t *testing.T) {
	action, step, err := NextStep(StepDetails, enums.DocumentTypeTaxInvoiceReceipt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action != ActionShowStep || step != StepPayment {
		t.Fatalf("expected show step 2, got %s/%d", action, step)
	}

	action, _, err = NextStep(StepPayment, enums.DocumentTypeTaxInvoiceReceipt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action != ActionSubmit {
		t.Fatalf("expected submit at step 2, got %s", action)
	}
}

func TestNextStepNoneDocumentSkipsPaymentStep(t *testing.T) {
	action, _, err := NextStep(StepDetails, enums.DocumentTypeNone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action != ActionSubmit {
		t.Fatalf("document type none should submit from step 1, got %s", action)
	}
}

func TestNextStepUnknownStep(t *testing.T) {
	_, _, err := NextStep(7, enums.DocumentTypeReceipt)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestPreviousStep(t *testing.T) {
	if got := PreviousStep(StepPayment); got != StepDetails {
		t.Fatalf("expected step 1, got %d", got)
	}
	if got := PreviousStep(StepDetails); got != StepDetails {
		t.Fatalf("retreating at step 1 should stay at 1, got %d", got)
	}
}
