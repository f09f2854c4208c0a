package dtos

type JobCreationRequest struct {
	Title        string `json:"title" binding:"required"`
	AirlineName  string `json:"airline_name" binding:"required"`
	ContractType string `json:"contract_type" binding:"required,oneof=Full-time Part-time Contract Freelance"`
	Region       string `json:"region" binding:"required"`
	Country      string `json:"country" binding:"required"`
	Description  string `json:"description" binding:"required"`

	// Optional Fields
	City           string `json:"city"`
	Requirements   string `json:"requirements"`
	AirlineLogoURL string `json:"airline_logo_url" binding:"omitempty,url"`
	SalaryMin      *int   `json:"salary_min" binding:"omitempty,min=0"`
	SalaryMax      *int   `json:"salary_max" binding:"omitempty,min=0"`
	SalaryCurrency string `json:"salary_currency" binding:"omitempty,len=3"`
	Status         string `json:"status" binding:"omitempty,oneof=active closed draft pending_approval"` // Defaults to "active" if empty
}

type JobListQuery struct {
	Region       string `form:"region"`
	ContractType string `form:"contract_type"`
	Limit        int    `form:"limit" binding:"omitempty,min=1,max=100"`
}
