package domain

// Party identifies one side of a contract as extracted from the document.
type Party struct {
	Name    string `json:"name"`
	ID      string `json:"id,omitempty"`
	Address string `json:"address,omitempty"`
}

// Parties groups the client and provider sides of a contract.
type Parties struct {
	Client   Party `json:"client"`
	Provider Party `json:"provider"`
}

// SupportHours describes the SLA support window per weekday.
// Hours are "HH:MM:SS" strings; the weekend flags are 0/1 as GLPI expects.
type SupportHours struct {
	WeekBeginHour     string `json:"week_begin_hour"`
	WeekEndHour       string `json:"week_end_hour"`
	UseSaturday       int    `json:"use_saturday"`
	SaturdayBeginHour string `json:"saturday_begin_hour"`
	SaturdayEndHour   string `json:"saturday_end_hour"`
	UseSunday         int    `json:"use_sunday"`
	SundayBeginHour   string `json:"sunday_begin_hour"`
	SundayEndHour     string `json:"sunday_end_hour"`
}

// ExtractedContract is the structured output of one contract extraction.
// It is created once per file, immutable afterwards, and never persisted.
// Optional fields are pointers so the creation step can strip absent values.
type ExtractedContract struct {
	ContractName            string        `json:"contract_name"`
	IsContract              bool          `json:"is_contract"`
	ContractType            *string       `json:"contract_type,omitempty"`
	Num                     *string       `json:"num,omitempty"`
	Parties                 *Parties      `json:"parties,omitempty"`
	StartDate               *string       `json:"start_date,omitempty"`
	EndDate                 *string       `json:"end_date,omitempty"`
	DurationMonths          *int          `json:"duration_months,omitempty"`
	RenewalEnum             *int          `json:"renewal_enum,omitempty"`
	NoticeMonths            *int          `json:"notice_months,omitempty"`
	BillingFrequencyMonths  *int          `json:"billing_frequency_months,omitempty"`
	Amount                  *float64      `json:"amount,omitempty"`
	Currency                string        `json:"currency,omitempty"`
	PaymentTerms            *string       `json:"payment_terms,omitempty"`
	SLASupportHours         *SupportHours `json:"sla_support_hours,omitempty"`
	KeyTerms                []string      `json:"key_terms,omitempty"`
	Summary                 string        `json:"summary"`
	PromptInjectionDetected bool          `json:"prompt_injection_detected"`
}

// BatchFileOutcome is the per-file result of one batch run.
// Status moves pending -> success|error and is terminal once appended
// to the batch result list.
type BatchFileOutcome struct {
	File             string        `json:"file"`
	RelocatedTo      string        `json:"relocated_to,omitempty"`
	Status           OutcomeStatus `json:"status"`
	ContractID       *int          `json:"contract_id"`
	ContractName     string        `json:"contract_name,omitempty"`
	DocumentAttached bool          `json:"document_attached"`
	DocumentError    string        `json:"document_error,omitempty"`
	ErrorCode        *int          `json:"error_code,omitempty"`
	ErrorDescription string        `json:"error_description,omitempty"`
	Error            string        `json:"error,omitempty"`
}

// SetError marks the outcome as failed with a taxonomy code and message.
func (o *BatchFileOutcome) SetError(code int, msg string) {
	c := code
	o.Status = OutcomeError
	o.ErrorCode = &c
	o.ErrorDescription = ErrorDescription(code)
	o.Error = msg
}

// BatchResult aggregates the outcomes of one pipeline invocation.
type BatchResult struct {
	Results []BatchFileOutcome `json:"results"`
	Summary string             `json:"summary_text"`
}
