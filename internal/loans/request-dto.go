package loans

type CreateSessionRequest struct {
	Language string `json:"language"`
}

type SetLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

type SelectLoanTypeRequest struct {
	LoanType string `json:"loan_type" binding:"required,oneof=personal business home education"`
}

// RecordingFailureRequest reports a device error seen by the client
type RecordingFailureRequest struct {
	Reason string `json:"reason" binding:"required,max=256"`
}
