package dtos

import "mime/multipart"

// ApplicationForm is the multipart body of POST /jobs/:id/applications.
type ApplicationForm struct {
	CoverLetter string                `form:"cover_letter"`
	Phone       string                `form:"phone"`
	Resume      *multipart.FileHeader `form:"resume"`

	AdditionalInfo string `form:"additional_info"`
	LinkedinURL    string `form:"linkedin_url"`
	NoticePeriod   string `form:"notice_period"`
	CurrentSalary  string `form:"current_salary"`
	ExpectedSalary string `form:"expected_salary"`
}
