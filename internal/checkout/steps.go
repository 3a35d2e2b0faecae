package checkout

import (
	"github.com/fitcore-app/fitcore-backend/pkg/enums"
	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
)

// Wizard steps. Step 1 collects the subscription details; step 2 the
// document and payment confirmation. A document type of "none" removes
// step 2 entirely.
const (
	StepDetails = 1
	StepPayment = 2
)

// StepAction is the outcome of advancing the wizard.
type StepAction string

const (
	ActionShowStep StepAction = "show_step"
	ActionSubmit   StepAction = "submit"
)

// NextStep decides what advancing from the draft's current position means.
func NextStep(step int, documentType enums.DocumentType) (StepAction, int, error) {
	switch step {
	case StepDetails:
		if documentType == enums.DocumentTypeNone {
			return ActionSubmit, StepDetails, nil
		}
		return ActionShowStep, StepPayment, nil
	case StepPayment:
		return ActionSubmit, StepPayment, nil
	default:
		return "", 0, pkgerrors.New(pkgerrors.CodeStateConflict, "draft is not on a known step")
	}
}

// PreviousStep moves back from step 2; retreating at step 1 is a no-op.
func PreviousStep(step int) int {
	if step > StepDetails {
		return step - 1
	}
	return StepDetails
}
