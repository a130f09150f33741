/*
checklist.go - Offboarding task checklist

PURPOSE:
  Tracks the seven offboarding tasks that gate final submission. Flags are
  independent booleans toggled one at a time; submission requires all of
  them.

FLAGS:
  final_pay_calculated     Final paycheck computed and reviewed
  benefits_terminated      Benefits enrollment ended
  cobra_notice_sent        COBRA continuation notice issued
  equipment_collected      Company equipment returned
  access_revoked           System and building access removed
  exit_interview_completed Exit interview held
  documentation_filed      Termination paperwork filed

SEE ALSO:
  - case.go: Submit gating on Complete()
*/
package offboarding

// =============================================================================
// FLAGS
// =============================================================================

type Flag string

const (
	FlagFinalPayCalculated     Flag = "final_pay_calculated"
	FlagBenefitsTerminated     Flag = "benefits_terminated"
	FlagCOBRANoticeSent        Flag = "cobra_notice_sent"
	FlagEquipmentCollected     Flag = "equipment_collected"
	FlagAccessRevoked          Flag = "access_revoked"
	FlagExitInterviewCompleted Flag = "exit_interview_completed"
	FlagDocumentationFiled     Flag = "documentation_filed"
)

// AllFlags lists every checklist flag in display order.
var AllFlags = []Flag{
	FlagFinalPayCalculated,
	FlagBenefitsTerminated,
	FlagCOBRANoticeSent,
	FlagEquipmentCollected,
	FlagAccessRevoked,
	FlagExitInterviewCompleted,
	FlagDocumentationFiled,
}

// =============================================================================
// CHECKLIST
// =============================================================================

// Checklist is a value type; Toggle and Set return updated copies.
type Checklist struct {
	FinalPayCalculated     bool `json:"final_pay_calculated"`
	BenefitsTerminated     bool `json:"benefits_terminated"`
	COBRANoticeSent        bool `json:"cobra_notice_sent"`
	EquipmentCollected     bool `json:"equipment_collected"`
	AccessRevoked          bool `json:"access_revoked"`
	ExitInterviewCompleted bool `json:"exit_interview_completed"`
	DocumentationFiled     bool `json:"documentation_filed"`
}

func (c Checklist) get(f Flag) (bool, bool) {
	switch f {
	case FlagFinalPayCalculated:
		return c.FinalPayCalculated, true
	case FlagBenefitsTerminated:
		return c.BenefitsTerminated, true
	case FlagCOBRANoticeSent:
		return c.COBRANoticeSent, true
	case FlagEquipmentCollected:
		return c.EquipmentCollected, true
	case FlagAccessRevoked:
		return c.AccessRevoked, true
	case FlagExitInterviewCompleted:
		return c.ExitInterviewCompleted, true
	case FlagDocumentationFiled:
		return c.DocumentationFiled, true
	default:
		return false, false
	}
}

func (c Checklist) with(f Flag, v bool) Checklist {
	switch f {
	case FlagFinalPayCalculated:
		c.FinalPayCalculated = v
	case FlagBenefitsTerminated:
		c.BenefitsTerminated = v
	case FlagCOBRANoticeSent:
		c.COBRANoticeSent = v
	case FlagEquipmentCollected:
		c.EquipmentCollected = v
	case FlagAccessRevoked:
		c.AccessRevoked = v
	case FlagExitInterviewCompleted:
		c.ExitInterviewCompleted = v
	case FlagDocumentationFiled:
		c.DocumentationFiled = v
	}
	return c
}

// Toggle flips one flag and returns the updated checklist.
func (c Checklist) Toggle(f Flag) (Checklist, error) {
	current, ok := c.get(f)
	if !ok {
		return c, &UnknownFlagError{Name: string(f)}
	}
	return c.with(f, !current), nil
}

// Set assigns one flag explicitly and returns the updated checklist.
func (c Checklist) Set(f Flag, v bool) (Checklist, error) {
	if _, ok := c.get(f); !ok {
		return c, &UnknownFlagError{Name: string(f)}
	}
	return c.with(f, v), nil
}

// Done reports one flag's state. Unknown flags read as false.
func (c Checklist) Done(f Flag) bool {
	v, _ := c.get(f)
	return v
}

// Complete reports whether every task is done. Submission requires this.
func (c Checklist) Complete() bool {
	for _, f := range AllFlags {
		done, _ := c.get(f)
		if !done {
			return false
		}
	}
	return true
}

// Remaining returns the flags still unchecked, in display order.
func (c Checklist) Remaining() []Flag {
	var out []Flag
	for _, f := range AllFlags {
		if done, _ := c.get(f); !done {
			out = append(out, f)
		}
	}
	return out
}

// ParseFlag validates a flag name from external input.
func ParseFlag(s string) (Flag, error) {
	f := Flag(s)
	if _, ok := (Checklist{}).get(f); !ok {
		return "", &UnknownFlagError{Name: s}
	}
	return f, nil
}
