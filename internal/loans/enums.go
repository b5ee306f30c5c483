package loans

import "fmt"

type LoanType string

const (
	LoanTypePersonal  LoanType = "personal"
	LoanTypeBusiness  LoanType = "business"
	LoanTypeHome      LoanType = "home"
	LoanTypeEducation LoanType = "education"
)

// LoanTypes lists the offered products in display order
var LoanTypes = []LoanType{LoanTypePersonal, LoanTypeBusiness, LoanTypeHome, LoanTypeEducation}

func (t LoanType) IsValid() bool {
	switch t {
	case LoanTypePersonal, LoanTypeBusiness, LoanTypeHome, LoanTypeEducation:
		return true
	}
	return false
}

func (t LoanType) String() string {
	return string(t)
}

// Status is the outcome shown on the final wizard step
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusMoreInfo Status = "more-info"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusMoreInfo:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

type DocumentType string

const (
	DocumentAadhaar        DocumentType = "aadhaar"
	DocumentPAN            DocumentType = "pan"
	DocumentIncomeProof    DocumentType = "incomeProof"
	DocumentBankStatements DocumentType = "bankStatements"
)

// DocumentTypes is the fixed set of documents an application carries
var DocumentTypes = []DocumentType{DocumentAadhaar, DocumentPAN, DocumentIncomeProof, DocumentBankStatements}

func (d DocumentType) IsValid() bool {
	switch d {
	case DocumentAadhaar, DocumentPAN, DocumentIncomeProof, DocumentBankStatements:
		return true
	}
	return false
}

func (d DocumentType) String() string {
	return string(d)
}

// Step is the wizard position, 1 through 5
type Step int

const (
	StepLoanType Step = iota + 1
	StepIntro
	StepDocuments
	StepRecording
	StepStatus
)

func (s Step) IsValid() bool {
	return s >= StepLoanType && s <= StepStatus
}

func (s Step) String() string {
	switch s {
	case StepLoanType:
		return "loan-type"
	case StepIntro:
		return "intro"
	case StepDocuments:
		return "documents"
	case StepRecording:
		return "recording"
	case StepStatus:
		return "status"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}
